package handler

import (
	"time"

	"github.com/msomdec/blogpost/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// PostDTO is the JSON representation of a post. UserID is null once the
// author has been deleted.
type PostDTO struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"userId"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toPostDTO(p *domain.Post) PostDTO {
	return PostDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Author:    p.AuthorName(),
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// PostPageDTO is one page of posts with navigation totals.
type PostPageDTO struct {
	CurrentPage int       `json:"currentPage"`
	PerPage     int       `json:"perPage"`
	Total       int       `json:"total"`
	LastPage    int       `json:"lastPage"`
	Data        []PostDTO `json:"data"`
}

func toPostPageDTO(page *domain.PostPage) PostPageDTO {
	dtos := make([]PostDTO, len(page.Posts))
	for i := range page.Posts {
		dtos[i] = toPostDTO(&page.Posts[i])
	}
	return PostPageDTO{
		CurrentPage: page.Page,
		PerPage:     page.PerPage,
		Total:       page.Total,
		LastPage:    page.LastPage(),
		Data:        dtos,
	}
}

// AuthDTO is returned by the API register and login endpoints.
type AuthDTO struct {
	User      UserDTO `json:"user"`
	Token     string  `json:"token"`
	TokenType string  `json:"tokenType"`
}
