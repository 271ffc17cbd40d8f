// Package seed fills a database with demo data for local development.
//
// Everything goes through the service layer, not the store, so likes,
// comments and messages fan out notifications exactly as they do for real
// traffic. Runs are deterministic for a given Options.Seed.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/sakif/pitchhub/internal/service"
)

// DefaultPassword is the password of every generated account.
const DefaultPassword = "password123"

// Options controls how much data a run generates.
type Options struct {
	Seed            int64
	Users           int
	PitchesPerUser  int
	LikesPerPitch   int
	CommentsPerUser int
	MessagesPerUser int
}

// DefaultOptions is a small but lively dataset.
func DefaultOptions() Options {
	return Options{
		Seed:            1,
		Users:           10,
		PitchesPerUser:  2,
		LikesPerPitch:   3,
		CommentsPerUser: 3,
		MessagesPerUser: 2,
	}
}

// Services is the subset of the service layer the seeder drives.
type Services struct {
	Auth         *service.AuthService
	Pitches      *service.PitchService
	Interactions *service.InteractionService
	Messaging    *service.MessagingService
}

// Result counts what a run created.
type Result struct {
	Users    int
	Pitches  int
	Likes    int
	Comments int
	Messages int
}

var (
	stages     = []string{"idea", "prototype", "mvp", "growth"}
	categories = []string{"climate", "health", "education", "fintech", "community", "tooling"}
	roles      = []string{"developer", "designer", "investor", "mentor", "marketer"}
	teamSizes  = []string{"1", "2-5", "6-10", "10+"}
)

// Seeder builds fake entities with a private gofakeit instance, so two
// seeders with the same seed produce the same data.
type Seeder struct {
	svc    Services
	opts   Options
	faker  *gofakeit.Faker
	logger *slog.Logger
}

func New(svc Services, opts Options, logger *slog.Logger) *Seeder {
	return &Seeder{
		svc:    svc,
		opts:   opts,
		faker:  gofakeit.New(opts.Seed),
		logger: logger,
	}
}

// Run creates users, then their pitches, then likes, comments and messages
// between them. Likes never toggle twice for the same pair, so every like
// in the result is still in place afterwards.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	var res Result

	userIDs := make([]int64, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		u, err := s.svc.Auth.Register(ctx, s.username(i), DefaultPassword)
		if err != nil {
			return nil, fmt.Errorf("seed: user %d: %w", i, err)
		}
		userIDs = append(userIDs, u.ID)
	}
	res.Users = len(userIDs)
	if len(userIDs) == 0 {
		return &res, nil
	}

	pitchIDs := make([]int64, 0, len(userIDs)*s.opts.PitchesPerUser)
	for _, uid := range userIDs {
		for j := 0; j < s.opts.PitchesPerUser; j++ {
			p, err := s.svc.Pitches.Create(ctx, uid, s.pitch())
			if err != nil {
				return nil, fmt.Errorf("seed: pitch: %w", err)
			}
			pitchIDs = append(pitchIDs, p.ID)
		}
	}
	res.Pitches = len(pitchIDs)

	for _, pid := range pitchIDs {
		for _, uid := range s.pick(userIDs, s.opts.LikesPerPitch) {
			r, err := s.svc.Interactions.ToggleLike(ctx, pid, uid)
			if err != nil {
				return nil, fmt.Errorf("seed: like: %w", err)
			}
			if r.Liked {
				res.Likes++
			}
		}
	}

	for _, uid := range userIDs {
		for j := 0; j < s.opts.CommentsPerUser && len(pitchIDs) > 0; j++ {
			pid := pitchIDs[s.faker.Number(0, len(pitchIDs)-1)]
			if _, err := s.svc.Interactions.AddComment(ctx, pid, uid, s.faker.Sentence(s.faker.Number(4, 14))); err != nil {
				return nil, fmt.Errorf("seed: comment: %w", err)
			}
			res.Comments++
		}

		for j := 0; j < s.opts.MessagesPerUser && len(userIDs) > 1; j++ {
			to := userIDs[s.faker.Number(0, len(userIDs)-1)]
			if to == uid {
				continue
			}
			subject := strings.TrimSuffix(s.faker.Sentence(3), ".")
			body := s.faker.Paragraph(1, 2, 12, " ")
			if _, err := s.svc.Messaging.Send(ctx, uid, to, subject, body); err != nil {
				return nil, fmt.Errorf("seed: message: %w", err)
			}
			res.Messages++
		}
	}

	s.logger.Info("seed complete",
		slog.Int("users", res.Users),
		slog.Int("pitches", res.Pitches),
		slog.Int("likes", res.Likes),
		slog.Int("comments", res.Comments),
		slog.Int("messages", res.Messages),
	)
	return &res, nil
}

// username returns a valid, unique username. The index suffix keeps two
// identical fake names from colliding on the UNIQUE constraint.
func (s *Seeder) username(i int) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			return r
		}
		return -1
	}, s.faker.Username())
	if len(base) > 24 {
		base = base[:24]
	}
	return fmt.Sprintf("%s_%d", base, i)
}

func (s *Seeder) pitch() service.PitchInput {
	return service.PitchInput{
		Title:       strings.TrimSuffix(s.faker.Sentence(s.faker.Number(3, 7)), "."),
		Summary:     s.faker.Sentence(12),
		Body:        s.faker.Paragraph(2, 4, 16, "\n\n"),
		Category:    s.faker.RandomString(categories),
		Tags:        strings.Join([]string{s.faker.Word(), s.faker.Word()}, ","),
		FundingGoal: fmt.Sprintf("$%d", s.faker.Number(5, 500)*1000),
		Stage:       s.faker.RandomString(stages),
		TeamSize:    s.faker.RandomString(teamSizes),
		Location:    s.faker.City(),
		Website:     s.faker.URL(),
		LookingFor:  []string{s.faker.RandomString(roles), s.faker.RandomString(roles)},
	}
}

// pick returns up to n distinct ids from ids.
func (s *Seeder) pick(ids []int64, n int) []int64 {
	if n > len(ids) {
		n = len(ids)
	}
	shuffled := append([]int64(nil), ids...)
	s.faker.ShuffleAnySlice(shuffled)
	return shuffled[:n]
}
