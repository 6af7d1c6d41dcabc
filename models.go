package photoshare

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleGuest is a guest role (ie. view)
	RoleGuest UserRole = "guest"
	// RoleMember is a member (i.e. view, edit)
	RoleMember UserRole = "member"
	// RoleAdmin is an admin role (i.e. view, edit, create, delete)
	RoleAdmin UserRole = "admin"
)

// DefaultAvatarURL is assigned to users that never uploaded an avatar.
const DefaultAvatarURL = "https://static.vecteezy.com/system/resources/previews/021/548/095/non_2x/default-profile-picture-avatar-user-avatar-icon-person-icon-head-icon-profile-picture-icons-default-anonymous-user-male-and-female-businessman-photo-placeholder-social-network-avatar-portrait-free-vector.jpg"

// User is the user model. RefreshToken holds the single currently valid
// refresh token for this user, or is empty; issuing a new one replaces it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"role,notnull" json:"role,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Avatar        string     `bun:"avatar" json:"avatar,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	EmailVerified bool       `bun:"is_verified" json:"is_verified,omitempty"`
	RefreshToken  string     `bun:"refresh_token,nullzero" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Image is an uploaded picture with its social trimmings.
type Image struct {
	bun.BaseModel `bun:"table:images,alias:img"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Owner         *User      `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	Title         string     `bun:"title" json:"title,omitempty"`
	URL           string     `bun:"url,notnull" json:"url,omitempty"`
	EditedURL     string     `bun:"edited_url" json:"edited_url,omitempty"`
	Rating        float64    `bun:"rating" json:"rating"`
	Tags          []*Tag     `bun:"m2m:image_tags,join:Image=Tag" json:"tags,omitempty"`
	Comments      []*Comment `bun:"rel:has-many,join:id=image_id" json:"comments,omitempty"`
	Likes         []*Like    `bun:"rel:has-many,join:id=image_id" json:"likes,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Comment is a user comment on an image.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	ImageID       uuid.UUID  `bun:"image_id,notnull,type:uuid" json:"image_id,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Tag names are unique; images and tags are joined through image_tags.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tag"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string    `bun:"name,notnull,unique" json:"name,omitempty"`
}

type ImageTag struct {
	bun.BaseModel `bun:"table:image_tags,alias:imt"`
	ImageID       uuid.UUID `bun:"image_id,pk,type:uuid"`
	Image         *Image    `bun:"rel:belongs-to,join:image_id=id"`
	TagID         uuid.UUID `bun:"tag_id,pk,type:uuid"`
	Tag           *Tag      `bun:"rel:belongs-to,join:tag_id=id"`
}

// Like marks that a user liked an image, once.
type Like struct {
	bun.BaseModel `bun:"table:likes,alias:lke"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	ImageID       uuid.UUID  `bun:"image_id,notnull,type:uuid" json:"image_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Rating is a 1..5 score a user gave an image. Image.Rating carries the
// running average.
type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:rtg"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	ImageID       uuid.UUID `bun:"image_id,notnull,type:uuid" json:"image_id,omitempty"`
	Value         int       `bun:"value,notnull" json:"value,omitempty"`
}
