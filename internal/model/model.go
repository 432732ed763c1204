package model

import "time"

// RoleAdmin gates every mutating content operation.
const RoleAdmin = "admin"

type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	Active         bool
	ConfirmedAt    *time.Time
	LastLoginAt    *time.Time
	CurrentLoginAt *time.Time
	LastLoginIP    string
	CurrentLoginIP string
	LoginCount     int
	CreatedAt      time.Time
}

type Role struct {
	ID          int64
	Name        string
	Description string
}

type Category struct {
	ID        int64
	Name      string
	PostCount int
}

type Post struct {
	ID           int64
	Title        string
	Body         string
	Description  string
	CreatedAt    time.Time
	AuthorID     int64
	AuthorName   string
	AuthorEmail  string
	CategoryID   int64
	CategoryName string
	Image        *Image
}

type Comment struct {
	ID          int64
	Body        string
	CreatedAt   time.Time
	AuthorID    int64
	AuthorName  string
	AuthorEmail string
	PostID      int64
	PostTitle   string
}

type Image struct {
	ID        int64
	URL       string
	Filename  string
	PostID    *int64
	CreatedAt time.Time
}

type Session struct {
	ID        string
	UserID    int64
	IP        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type ArchiveMonth struct {
	Year  int
	Month int
	Count int
}

type PostSummary struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}
