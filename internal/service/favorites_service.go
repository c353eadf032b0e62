package service

import (
	"context"

	"github.com/tavernarpg/storefront/internal/repository"
)

// FavoritesService is identity-scoped set membership over the user
// document's favorites array. It gates display, never checkout.
type FavoritesService struct {
	users repository.UserRepository
}

func NewFavoritesService(users repository.UserRepository) *FavoritesService {
	return &FavoritesService{users: users}
}

func (s *FavoritesService) AddFavorite(ctx context.Context, userID, productID string) error {
	return s.users.AddFavorite(ctx, userID, productID)
}

func (s *FavoritesService) RemoveFavorite(ctx context.Context, userID, productID string) error {
	return s.users.RemoveFavorite(ctx, userID, productID)
}

func (s *FavoritesService) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Favorites == nil {
		return []string{}, nil
	}
	return user.Favorites, nil
}

func (s *FavoritesService) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	favorites, err := s.ListFavorites(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range favorites {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}
