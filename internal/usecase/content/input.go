package content

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"blog-content/internal/domain/entity"
)

// CreateInput is the form data for a new post.
// Required fields are checked in declaration order: title, excerpt, content, categoryId.
type CreateInput struct {
	Title         string        `json:"title" yaml:"title" validate:"notblank"`
	Excerpt       string        `json:"excerpt" yaml:"excerpt" validate:"notblank"`
	Content       string        `json:"content" yaml:"content" validate:"notblank"`
	CategoryID    string        `json:"categoryId" yaml:"categoryId" validate:"notblank"`
	TagIDs        []string      `json:"tagIds" yaml:"tagIds"`
	FeaturedImage string        `json:"featuredImage" yaml:"featuredImage"`
	Status        entity.Status `json:"status" yaml:"status"`
	// PublishedAt is honoured on first publish and required for scheduled posts.
	PublishedAt *time.Time `json:"publishedAt" yaml:"publishedAt"`
}

// UpdateInput is a partial update. A nil field is left unchanged.
// TagIDs follows the same rule: nil keeps the tags, an empty slice clears them.
type UpdateInput struct {
	Title         *string        `json:"title,omitempty" yaml:"title,omitempty" validate:"omitnil,notblank"`
	Excerpt       *string        `json:"excerpt,omitempty" yaml:"excerpt,omitempty" validate:"omitnil,notblank"`
	Content       *string        `json:"content,omitempty" yaml:"content,omitempty" validate:"omitnil,notblank"`
	CategoryID    *string        `json:"categoryId,omitempty" yaml:"categoryId,omitempty" validate:"omitnil,notblank"`
	TagIDs        []string       `json:"tagIds,omitempty" yaml:"tagIds,omitempty"`
	FeaturedImage *string        `json:"featuredImage,omitempty" yaml:"featuredImage,omitempty"`
	Status        *entity.Status `json:"status,omitempty" yaml:"status,omitempty"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
}

// ListOptions filters a post listing. Page and Limit are optional; when given
// they must be at least 1.
type ListOptions struct {
	Status     entity.Status
	Search     string
	CategoryID string
	TagIDs     []string
	AuthorID   string
	Page       *int
	Limit      *int
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// report json field names ("categoryId", not "CategoryID")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput returns a *entity.ValidationError for the first failing field.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &entity.ValidationError{Field: verrs[0].Field(), Message: "is required"}
	}
	return err
}
