package domain

import "time"

type Post struct {
	ID        int64
	UserID    int64
	Body      string
	CreatedAt time.Time
}

// PostWithLikes is a Post joined with its like count, used by listings.
type PostWithLikes struct {
	Post
	Likes int64
}

type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Body      string
	CreatedAt time.Time
}

type PostLike struct {
	ID     int64
	PostID int64
	UserID int64
}

// PostSorting selects the ordering of post listings.
type PostSorting string

const (
	SortNew       PostSorting = "new"
	SortOld       PostSorting = "old"
	SortMostLikes PostSorting = "most_likes"
)

func ValidSorting(s string) bool {
	switch PostSorting(s) {
	case SortNew, SortOld, SortMostLikes:
		return true
	}
	return false
}
