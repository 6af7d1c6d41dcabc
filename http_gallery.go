package photoshare

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RegisterGalleryRoutes mounts the image endpoints. Every route sits
// behind the access token middleware.
func RegisterGalleryRoutes[T any](app router.Router[T], opts ...GalleryControllerOption) {
	controller := NewGalleryController(opts...)

	protected := ProtectedRoute(controller.Codec, controller.ErrorHandler)

	app.Get("/images", controller.ListImages, protected).
		SetName("images.list")

	app.Post("/images", controller.CreateImage, protected).
		SetName("images.create")

	app.Get("/images/:id", controller.ShowImage, protected).
		SetName("images.show")

	app.Delete("/images/:id", controller.DeleteImage, protected).
		SetName("images.delete")

	app.Post("/images/:id/comments", controller.AddComment, protected).
		SetName("images.comments.create")

	app.Post("/images/:id/like", controller.Like, protected).
		SetName("images.like")

	app.Delete("/images/:id/like", controller.Unlike, protected).
		SetName("images.unlike")

	app.Post("/images/:id/rate", controller.Rate, protected).
		SetName("images.rate")

	app.Post("/images/:id/tags", controller.TagImage, protected).
		SetName("images.tags.create")
}

type GalleryController struct {
	Logger       Logger
	Repo         RepositoryManager
	Codec        TokenService
	ErrorHandler func(router.Context, error) error
}

type GalleryControllerOption func(*GalleryController) *GalleryController

func WithGalleryRepo(repo RepositoryManager) GalleryControllerOption {
	return func(c *GalleryController) *GalleryController {
		c.Repo = repo
		return c
	}
}

func WithGalleryTokenService(codec TokenService) GalleryControllerOption {
	return func(c *GalleryController) *GalleryController {
		c.Codec = codec
		return c
	}
}

func WithGalleryLogger(logger Logger) GalleryControllerOption {
	return func(c *GalleryController) *GalleryController {
		c.Logger = logger
		return c
	}
}

func NewGalleryController(opts ...GalleryControllerOption) *GalleryController {
	c := &GalleryController{
		Logger:       defLogger{},
		ErrorHandler: renderError,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in gallery controller...")
	}

	if c.Codec == nil {
		panic("Missing TokenService in gallery controller...")
	}

	return c
}

// ImagePayload carries the upload form fields.
type ImagePayload struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	EditedURL string   `json:"edited_url,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

func (p ImagePayload) Valid() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.URL, validation.Required, is.URL),
	)
}

// CommentPayload carries a comment body.
type CommentPayload struct {
	Content string `json:"content"`
}

func (p CommentPayload) Valid() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Content, validation.Required, validation.Length(1, 2000)),
	)
}

// RatingPayload carries a 1..5 score.
type RatingPayload struct {
	Value int `json:"value"`
}

// TagsPayload carries tag names to attach.
type TagsPayload struct {
	Names []string `json:"names"`
}

func (a *GalleryController) ListImages(ctx router.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	records, err := a.Repo.Images().ListByOwner(ctx.Context(), ownerID)
	if err != nil {
		a.Logger.Error("ListImages error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (a *GalleryController) CreateImage(ctx router.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := ImagePayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if err := payload.Valid(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid image payload").
			WithCode(goerrors.CodeBadRequest))
	}

	record := &Image{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     payload.Title,
		URL:       payload.URL,
		EditedURL: payload.EditedURL,
	}

	record, err = a.Repo.Images().Create(ctx.Context(), record)
	if err != nil {
		a.Logger.Error("CreateImage error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	if len(payload.Tags) > 0 {
		if err := a.Repo.Images().TagImage(ctx.Context(), record.ID, payload.Tags...); err != nil {
			a.Logger.Error("CreateImage tag error: %s", err)
			return a.ErrorHandler(ctx, err)
		}
	}

	return ctx.JSON(router.StatusCreated, record)
}

func (a *GalleryController) ShowImage(ctx router.Context) error {
	imageID, err := imageParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	record, err := a.Repo.Images().FindByID(ctx.Context(), imageID)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundAsImage(err, imageID))
	}

	return ctx.JSON(router.StatusOK, record)
}

func (a *GalleryController) DeleteImage(ctx router.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	imageID, err := imageParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Images().DeleteOwned(ctx.Context(), ownerID, imageID); err != nil {
		return a.ErrorHandler(ctx, notFoundAsImage(err, imageID))
	}

	return ctx.NoContent(router.StatusNoContent)
}

func (a *GalleryController) AddComment(ctx router.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	imageID, err := imageParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := CommentPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if err := payload.Valid(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid comment payload").
			WithCode(goerrors.CodeBadRequest))
	}

	comment, err := a.Repo.Images().AddComment(ctx.Context(), &Comment{
		OwnerID: ownerID,
		ImageID: imageID,
		Content: payload.Content,
	})
	if err != nil {
		a.Logger.Error("AddComment error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, comment)
}

func (a *GalleryController) Like(ctx router.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	imageID, err := imageParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Images().Like(ctx.Context(), ownerID, imageID); err != nil {
		a.Logger.Error("Like error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(router.StatusNoContent)
}

func (a *GalleryController) Unlike(ctx router.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	imageID, err := imageParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Images().Unlike(ctx.Context(), ownerID, imageID); err != nil {
		a.Logger.Error("Unlike error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(router.StatusNoContent)
}

func (a *GalleryController) Rate(ctx router.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	imageID, err := imageParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := RatingPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	record, err := a.Repo.Images().Rate(ctx.Context(), ownerID, imageID, payload.Value)
	if err != nil {
		a.Logger.Error("Rate error: %s", err)
		return a.ErrorHandler(ctx, notFoundAsImage(err, imageID))
	}

	return ctx.JSON(router.StatusOK, record)
}

func (a *GalleryController) TagImage(ctx router.Context) error {
	imageID, err := imageParam(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := TagsPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if len(payload.Names) == 0 {
		return a.ErrorHandler(ctx, goerrors.New("at least one tag name is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	if err := a.Repo.Images().TagImage(ctx.Context(), imageID, payload.Names...); err != nil {
		a.Logger.Error("TagImage error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	record, err := a.Repo.Images().FindByID(ctx.Context(), imageID)
	if err != nil {
		return a.ErrorHandler(ctx, notFoundAsImage(err, imageID))
	}

	return ctx.JSON(router.StatusOK, record)
}

func callerID(ctx router.Context) (uuid.UUID, error) {
	session, err := SessionFromContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := session.GetUserUUID()
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}

	return id, nil
}

func imageParam(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.New("invalid image id", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}
	return id, nil
}

func notFoundAsImage(err error, id uuid.UUID) error {
	if repository.IsRecordNotFound(err) {
		return goerrors.New("image not found", goerrors.CategoryNotFound).
			WithTextCode("IMAGE_NOT_FOUND").
			WithCode(goerrors.CodeNotFound).
			WithMetadata(map[string]any{"id": id.String()})
	}
	return err
}
