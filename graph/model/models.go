package model

// User - пользователь в разрезе API.
// Token заполняется только при регистрации и логине, Friends/FriendRequests -
// только там, где операция обещает развернутые связи
type User struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Bio            *string `json:"bio"`
	Friends        []*User `json:"friends"`
	FriendRequests []*User `json:"friendRequests"`
	Token          *string `json:"token"`
}

type Post struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    *User  `json:"author"`
	CreatedAt string `json:"createdAt"`
}
