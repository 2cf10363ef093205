package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/ports"
	"github.com/warinb/linkgrove/pkg/wallet"
)

type ProfileService struct {
	repo   ports.ProfileRepository
	signer wallet.Signer
	events *EventBus
}

func NewProfileService(repo ports.ProfileRepository, signer wallet.Signer, events *EventBus) *ProfileService {
	return &ProfileService{repo: repo, signer: signer, events: events}
}

func (s *ProfileService) CreateProfile(ctx context.Context, owner, username, displayName, bio, imageURL, subdomain string) (*domain.Profile, *domain.Receipt, error) {
	if owner == "" {
		return nil, nil, errors.New("owner address is required")
	}
	if username == "" {
		return nil, nil, errors.New("username is required")
	}

	// One profile per owner, checked before any write.
	existing, err := s.repo.GetProfileByOwner(ctx, owner)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, nil, fmt.Errorf("create profile: %w", err)
	}
	if existing != nil {
		return nil, nil, domain.ErrOwnerTaken
	}

	now := time.Now()
	profile := &domain.Profile{
		Owner:       owner,
		Username:    username,
		DisplayName: displayName,
		Bio:         bio,
		ImageURL:    imageURL,
		Subdomain:   subdomain,
		LinkIDs:     []int64{},
		NextLinkID:  0,
		NextOrder:   0,
		LinkCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Repository mints the profile id and the empty link bucket together.
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("create profile: %w", err)
	}

	receipt, err := s.receipt(ctx, "create_profile")
	if err != nil {
		return nil, nil, err
	}

	s.events.emitProfileCreated(domain.ProfileCreated{
		ProfileID: profile.ID,
		Owner:     profile.Owner,
		Username:  profile.Username,
	})

	return profile, receipt, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	return s.repo.GetProfile(ctx, profileID)
}

func (s *ProfileService) GetProfileByOwner(ctx context.Context, owner string) (*domain.Profile, error) {
	return s.repo.GetProfileByOwner(ctx, owner)
}

func (s *ProfileService) GetProfileBySubdomain(ctx context.Context, subdomain string) (*domain.Profile, error) {
	return s.repo.GetProfileBySubdomain(ctx, subdomain)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, profileID, displayName, bio string) (*domain.Receipt, error) {
	return s.overwrite(ctx, "update_profile", profileID, func(p *domain.Profile) {
		p.DisplayName = displayName
		p.Bio = bio
	})
}

func (s *ProfileService) UpdateProfileImage(ctx context.Context, profileID, imageURL string) (*domain.Receipt, error) {
	return s.overwrite(ctx, "update_profile_image", profileID, func(p *domain.Profile) {
		p.ImageURL = imageURL
	})
}

func (s *ProfileService) UpdateSubdomain(ctx context.Context, profileID, subdomain string) (*domain.Receipt, error) {
	return s.overwrite(ctx, "update_subdomain", profileID, func(p *domain.Profile) {
		p.Subdomain = subdomain
	})
}

// overwrite applies a single-field mutation to an existing profile. Every
// field not touched by fn keeps its stored value.
func (s *ProfileService) overwrite(ctx context.Context, operation, profileID string, fn func(*domain.Profile)) (*domain.Receipt, error) {
	profile, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	fn(profile)
	profile.UpdatedAt = time.Now()

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return s.receipt(ctx, operation)
}

func (s *ProfileService) receipt(ctx context.Context, operation string) (*domain.Receipt, error) {
	digest, err := s.signer.SignTransaction(ctx, operation)
	if err != nil {
		return nil, fmt.Errorf("%s: sign: %w", operation, err)
	}
	return &domain.Receipt{TxDigest: digest}, nil
}

var _ ports.ProfileService = (*ProfileService)(nil)
