package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/ports"
	"github.com/warinb/linkgrove/pkg/wallet"
)

type LinkService struct {
	repo   ports.ProfileRepository
	signer wallet.Signer
	events *EventBus
}

func NewLinkService(repo ports.ProfileRepository, signer wallet.Signer, events *EventBus) *LinkService {
	return &LinkService{repo: repo, signer: signer, events: events}
}

func (s *LinkService) AddLink(ctx context.Context, profileID, title, url, icon, banner string) (*domain.Link, *domain.Receipt, error) {
	profile, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, nil, err
	}
	links, err := s.repo.GetLinks(ctx, profileID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	link := domain.Link{
		ID:        profile.NextLinkID,
		Title:     title,
		URL:       url,
		Icon:      icon,
		Banner:    banner,
		IsActive:  true,
		Order:     profile.NextOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}

	profile.NextLinkID++
	profile.NextOrder++
	profile.LinkCount++
	profile.LinkIDs = append(profile.LinkIDs, link.ID)
	profile.UpdatedAt = now
	links = append(links, link)

	if err := s.repo.PutLinks(ctx, profile, links); err != nil {
		return nil, nil, fmt.Errorf("add link: %w", err)
	}

	receipt, err := s.receipt(ctx, "add_link")
	if err != nil {
		return nil, nil, err
	}

	s.events.emitLinkAdded(domain.LinkAdded{
		ProfileID: profileID,
		LinkID:    link.ID,
		Title:     link.Title,
		URL:       link.URL,
	})

	return &link, receipt, nil
}

func (s *LinkService) UpdateLink(ctx context.Context, profileID string, linkID int64, title, url, icon, banner string) (*domain.Receipt, error) {
	return s.mutate(ctx, "update_link", profileID, linkID, func(l *domain.Link) {
		l.Title = title
		l.URL = url
		l.Icon = icon
		l.Banner = banner
	})
}

func (s *LinkService) DeleteLink(ctx context.Context, profileID string, linkID int64) (*domain.Receipt, error) {
	profile, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.GetLinks(ctx, profileID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range links {
		if links[i].ID == linkID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrLinkNotFound
	}

	links = append(links[:idx], links[idx+1:]...)
	for i, id := range profile.LinkIDs {
		if id == linkID {
			profile.LinkIDs = append(profile.LinkIDs[:i], profile.LinkIDs[i+1:]...)
			break
		}
	}
	// LinkCount tracks present links; NextLinkID/NextOrder never move
	// backwards, so the deleted id and its order slot are retired for good.
	profile.LinkCount--
	profile.UpdatedAt = time.Now()

	if err := s.repo.PutLinks(ctx, profile, links); err != nil {
		return nil, fmt.Errorf("delete link: %w", err)
	}

	receipt, err := s.receipt(ctx, "delete_link")
	if err != nil {
		return nil, err
	}

	s.events.emitLinkDeleted(domain.LinkDeleted{ProfileID: profileID, LinkID: linkID})

	return receipt, nil
}

func (s *LinkService) ToggleLink(ctx context.Context, profileID string, linkID int64, isActive bool) (*domain.Receipt, error) {
	return s.mutate(ctx, "toggle_link", profileID, linkID, func(l *domain.Link) {
		l.IsActive = isActive
	})
}

func (s *LinkService) ReorderLink(ctx context.Context, profileID string, linkID, newOrder int64) (*domain.Receipt, error) {
	return s.mutate(ctx, "reorder_link", profileID, linkID, func(l *domain.Link) {
		l.Order = newOrder
	})
}

func (s *LinkService) GetLink(ctx context.Context, profileID string, linkID int64) (*domain.Link, error) {
	links, err := s.repo.GetLinks(ctx, profileID)
	if err != nil {
		return nil, err
	}
	for i := range links {
		if links[i].ID == linkID {
			return &links[i], nil
		}
	}
	return nil, domain.ErrLinkNotFound
}

// GetProfileLinks returns all of a profile's links, inactive included, sorted
// ascending by order. The sort is stable so equal orders keep insertion order.
func (s *LinkService) GetProfileLinks(ctx context.Context, profileID string) ([]domain.Link, error) {
	links, err := s.repo.GetLinks(ctx, profileID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Order < links[j].Order
	})
	return links, nil
}

// mutate rewrites one link in place. The target's other fields, its siblings,
// and the profile counters are untouched. Any failed lookup aborts before the
// write.
func (s *LinkService) mutate(ctx context.Context, operation, profileID string, linkID int64, fn func(*domain.Link)) (*domain.Receipt, error) {
	profile, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.GetLinks(ctx, profileID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range links {
		if links[i].ID == linkID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrLinkNotFound
	}

	fn(&links[idx])
	links[idx].UpdatedAt = time.Now()
	profile.UpdatedAt = links[idx].UpdatedAt

	if err := s.repo.PutLinks(ctx, profile, links); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return s.receipt(ctx, operation)
}

func (s *LinkService) receipt(ctx context.Context, operation string) (*domain.Receipt, error) {
	digest, err := s.signer.SignTransaction(ctx, operation)
	if err != nil {
		return nil, fmt.Errorf("%s: sign: %w", operation, err)
	}
	return &domain.Receipt{TxDigest: digest}, nil
}

var _ ports.LinkService = (*LinkService)(nil)
