package photoshare

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var RecomputeImageRatingSQL = `UPDATE "images" AS "img"
SET
	"rating" = COALESCE((
		SELECT AVG("rtg"."value") FROM "ratings" AS "rtg"
		WHERE "rtg"."image_id" = "img"."id"
	), 0)
WHERE
	"img"."id" = ?
RETURNING *;`

// ErrAlreadyLiked is returned when a user likes the same image twice.
var ErrAlreadyLiked = goerrors.New("image already liked", goerrors.CategoryConflict).
	WithTextCode("ALREADY_LIKED").
	WithCode(goerrors.CodeConflict)

// ErrInvalidRatingValue rejects scores outside 1..5.
var ErrInvalidRatingValue = goerrors.New("rating value must be between 1 and 5", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

type Images interface {
	repository.Repository[*Image]

	FindByID(ctx context.Context, id uuid.UUID) (*Image, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Image, error)
	DeleteOwned(ctx context.Context, ownerID, imageID uuid.UUID) error
	AddComment(ctx context.Context, comment *Comment) (*Comment, error)
	Like(ctx context.Context, ownerID, imageID uuid.UUID) error
	Unlike(ctx context.Context, ownerID, imageID uuid.UUID) error
	Rate(ctx context.Context, ownerID, imageID uuid.UUID, value int) (*Image, error)
	TagImage(ctx context.Context, imageID uuid.UUID, names ...string) error
}

type images struct {
	repository.Repository[*Image]
	db       *bun.DB
	comments repository.Repository[*Comment]
	tags     repository.Repository[*Tag]
}

var _ Images = (*images)(nil)

func NewImagesRepository(db *bun.DB) Images {
	repo := repository.NewRepository[*Image](db, repository.ModelHandlers[*Image]{
		NewRecord: func() *Image { return &Image{} },
		GetID: func(i *Image) uuid.UUID {
			if i == nil {
				return uuid.Nil
			}
			return i.ID
		},
		SetID: func(i *Image, id uuid.UUID) {
			if i != nil {
				i.ID = id
			}
		},
	})

	return &images{
		Repository: repo,
		db:         db,
		comments:   newCommentsRepository(db),
		tags:       newTagsRepository(db),
	}
}

func newCommentsRepository(db *bun.DB) repository.Repository[*Comment] {
	return repository.NewRepository[*Comment](db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})
}

func newTagsRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.NewRepository[*Tag](db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})
}

func (r *images) FindByID(ctx context.Context, id uuid.UUID) (*Image, error) {
	record := &Image{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Tags").
		Relation("Comments").
		Relation("Likes").
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// DeleteOwned removes an image only when the caller owns it. A missing
// row and a row owned by someone else both read as not found, so the
// response does not leak which one it was.
func (r *images) DeleteOwned(ctx context.Context, ownerID, imageID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Image)(nil)).
		Where("?TableAlias.id = ? AND ?TableAlias.owner_id = ?", imageID.String(), ownerID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": imageID.String()})
	}

	return nil
}

func (r *images) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Image, error) {
	var records []*Image
	err := r.db.NewSelect().
		Model(&records).
		Relation("Tags").
		Relation("Comments").
		Relation("Likes").
		Where("?TableAlias.owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *images) AddComment(ctx context.Context, comment *Comment) (*Comment, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	return r.comments.Create(ctx, comment)
}

func (r *images) Like(ctx context.Context, ownerID, imageID uuid.UUID) error {
	exists, err := r.db.NewSelect().
		Model((*Like)(nil)).
		Where("?TableAlias.owner_id = ? AND ?TableAlias.image_id = ?", ownerID.String(), imageID.String()).
		Exists(ctx)
	if err != nil {
		return err
	}

	if exists {
		return ErrAlreadyLiked
	}

	like := &Like{ID: uuid.New(), OwnerID: ownerID, ImageID: imageID}
	_, err = r.db.NewInsert().Model(like).Exec(ctx)
	return err
}

func (r *images) Unlike(ctx context.Context, ownerID, imageID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Like)(nil)).
		Where("?TableAlias.owner_id = ? AND ?TableAlias.image_id = ?", ownerID.String(), imageID.String()).
		Exec(ctx)
	return err
}

// Rate upserts the caller's score and recomputes the image average inside
// one transaction.
func (r *images) Rate(ctx context.Context, ownerID, imageID uuid.UUID, value int) (*Image, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRatingValue
	}

	record := &Image{}
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rating := &Rating{ID: uuid.New(), OwnerID: ownerID, ImageID: imageID, Value: value}
		_, err := tx.NewInsert().
			Model(rating).
			On("CONFLICT (owner_id, image_id) DO UPDATE").
			Set("value = EXCLUDED.value").
			Exec(ctx)
		if err != nil {
			return err
		}

		err = tx.NewRaw(RecomputeImageRatingSQL, imageID.String()).Scan(ctx, record)
		if err != nil {
			if err == sql.ErrNoRows {
				return repository.NewRecordNotFound().
					WithMetadata(map[string]any{"id": imageID.String()})
			}
			return err
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// TagImage attaches tags by name, creating missing ones.
func (r *images) TagImage(ctx context.Context, imageID uuid.UUID, names ...string) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, name := range names {
			tag, err := r.tags.GetByIdentifierTx(ctx, tx, name)
			if err != nil {
				if !repository.IsRecordNotFound(err) {
					return err
				}
				tag, err = r.tags.CreateTx(ctx, tx, &Tag{ID: uuid.New(), Name: name})
				if err != nil {
					return err
				}
			}

			join := &ImageTag{ImageID: imageID, TagID: tag.ID}
			if _, err := tx.NewInsert().
				Model(join).
				On("CONFLICT DO NOTHING").
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
