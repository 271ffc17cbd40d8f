package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/repository"
)

// PitchInput is the user-editable part of a pitch.
type PitchInput struct {
	Title       string
	Summary     string
	Body        string
	Category    string
	Tags        string
	Image       string
	FundingGoal string
	Stage       string
	TeamSize    string
	Location    string
	Website     string
	DemoURL     string
	LookingFor  []string
}

// PitchService is the thin CRUD layer around pitches. Reads come back as
// PitchView: the pitch plus live like/comment counts and the viewer's own
// like state.
type PitchService struct {
	pitches  repository.PitchRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewPitchService(
	pitches repository.PitchRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *PitchService {
	return &PitchService{
		pitches:  pitches,
		likes:    likes,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// Create validates and stores a new pitch. Title and body are required.
func (s *PitchService) Create(ctx context.Context, authorID int64, in PitchInput) (*model.Pitch, error) {
	title, err := requireText("title", "title", in.Title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	body, err := requireText("body", "body", in.Body, MaxPitchLength)
	if err != nil {
		return nil, err
	}
	summary, err := optionalText("summary", "summary", in.Summary, 1000)
	if err != nil {
		return nil, err
	}

	p := &model.Pitch{
		Title:       title,
		Summary:     summary,
		Body:        body,
		Category:    strings.TrimSpace(in.Category),
		Tags:        strings.TrimSpace(in.Tags),
		Image:       strings.TrimSpace(in.Image),
		FundingGoal: strings.TrimSpace(in.FundingGoal),
		Stage:       strings.TrimSpace(in.Stage),
		TeamSize:    strings.TrimSpace(in.TeamSize),
		Location:    strings.TrimSpace(in.Location),
		Website:     strings.TrimSpace(in.Website),
		DemoURL:     strings.TrimSpace(in.DemoURL),
		LookingFor:  in.LookingFor,
		AuthorID:    authorID,
	}
	if err := s.pitches.CreatePitch(ctx, p); err != nil {
		return nil, fmt.Errorf("service/pitch: creating pitch: %w", err)
	}

	s.logger.Info("pitch created",
		slog.Int64("pitchID", p.ID),
		slog.Int64("authorID", authorID),
	)

	// re-read so AuthorName and the normalized LookingFor set are filled in
	created, err := s.pitches.GetPitch(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("service/pitch: reloading pitch: %w", err)
	}
	return created, nil
}

// Get returns the pitch as seen by viewerID. viewerID 0 means anonymous.
func (s *PitchService) Get(ctx context.Context, id, viewerID int64) (*model.PitchView, error) {
	p, err := s.pitches.GetPitch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/pitch: %w", err)
	}
	return s.view(ctx, *p, viewerID)
}

// List returns pitches newest first, optionally filtered by a search query.
func (s *PitchService) List(ctx context.Context, query string, limit, offset int, viewerID int64) ([]model.PitchView, error) {
	pitches, err := s.pitches.ListPitches(ctx, query, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("service/pitch: %w", err)
	}
	return s.views(ctx, pitches, viewerID)
}

// ListByAuthor backs the user's dashboard.
func (s *PitchService) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]model.PitchView, error) {
	pitches, err := s.pitches.ListPitchesByAuthor(ctx, authorID, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("service/pitch: %w", err)
	}
	return s.views(ctx, pitches, authorID)
}

// Delete removes a pitch. Only its author or an admin may do so.
func (s *PitchService) Delete(ctx context.Context, id, requesterID int64) error {
	p, err := s.pitches.GetPitch(ctx, id)
	if err != nil {
		return fmt.Errorf("service/pitch: %w", err)
	}

	if p.AuthorID != requesterID {
		requester, err := s.users.GetUserByID(ctx, requesterID)
		if err != nil {
			return fmt.Errorf("service/pitch: loading requester: %w", err)
		}
		if !requester.IsAdmin() {
			return apperror.Forbidden("only the author or an admin can delete this pitch")
		}
	}

	if err := s.pitches.DeletePitch(ctx, id); err != nil {
		return fmt.Errorf("service/pitch: %w", err)
	}
	s.logger.Info("pitch deleted",
		slog.Int64("pitchID", id),
		slog.Int64("requesterID", requesterID),
	)
	return nil
}

// views decorates a page of pitches, at most four at a time.
func (s *PitchService) views(ctx context.Context, pitches []model.Pitch, viewerID int64) ([]model.PitchView, error) {
	out := make([]model.PitchView, len(pitches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range pitches {
		i := i
		g.Go(func() error {
			v, err := s.view(gctx, pitches[i], viewerID)
			if err != nil {
				return err
			}
			out[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PitchService) view(ctx context.Context, p model.Pitch, viewerID int64) (*model.PitchView, error) {
	v := &model.PitchView{Pitch: p}

	var err error
	if v.LikeCount, err = s.likes.CountLikes(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("service/pitch: %w", err)
	}
	if v.CommentCount, err = s.comments.CountComments(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("service/pitch: %w", err)
	}
	if viewerID > 0 {
		if v.LikedByMe, err = s.likes.HasLiked(ctx, p.ID, viewerID); err != nil {
			return nil, fmt.Errorf("service/pitch: %w", err)
		}
	}
	return v, nil
}
