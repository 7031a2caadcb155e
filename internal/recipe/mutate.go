package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/form"
	"github.com/matt-dz/foodgram/internal/validation"
	"github.com/matt-dz/foodgram/internal/viewer"
)

var validate = validation.NewValidator()

type IngredientAmount struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int32 `json:"amount" validate:"gte=1"`
}

// CreateParams is a new recipe. Image is a base64 data URI.
type CreateParams struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Description string             `json:"description" validate:"required"`
	Image       string             `json:"image" validate:"required"`
	CookingTime int32              `json:"cooking_time" validate:"gte=1"`
	Tags        []int64            `json:"tags" validate:"unique,dive,gt=0"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
}

// UpdateParams changes the fields that are non-nil. Non-nil Tags or
// Ingredients replace the previous set.
type UpdateParams struct {
	Name        *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string             `json:"description" validate:"omitempty,min=1"`
	Image       *string             `json:"image" validate:"omitempty,min=1"`
	CookingTime *int32              `json:"cooking_time" validate:"omitempty,gte=1"`
	Tags        *[]int64            `json:"tags" validate:"omitempty,unique,dive,gt=0"`
	Ingredients *[]IngredientAmount `json:"ingredients" validate:"omitempty,min=1,unique=ID,dive"`
}

func ValidateCreate(p CreateParams) error {
	return validation.FromValidator(validate.Struct(p))
}

func ValidateUpdate(p UpdateParams) error {
	return validation.FromValidator(validate.Struct(p))
}

func ingredientIDs(ingredients []IngredientAmount) []int64 {
	ids := make([]int64, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.ID
	}
	return ids
}

// checkReferences reports unknown tag and ingredient ids. The ids are
// already known to be unique.
func (s *Service) checkReferences(ctx context.Context, tags []int64, ingredients []IngredientAmount) error {
	verr := validation.New()
	if len(tags) > 0 {
		n, err := s.db.CountTags(ctx, tags)
		if err != nil {
			return fmt.Errorf("counting tags: %w", err)
		}
		if n != int64(len(tags)) {
			verr.Add("tags", "unknown tag id")
		}
	}
	if len(ingredients) > 0 {
		n, err := s.db.CountIngredients(ctx, ingredientIDs(ingredients))
		if err != nil {
			return fmt.Errorf("counting ingredients: %w", err)
		}
		if n != int64(len(ingredients)) {
			verr.Add("ingredients", "unknown ingredient id")
		}
	}
	return verr.OrNil()
}

func decodeImage(uri string) (*form.File, error) {
	img, err := form.DecodeDataURI(uri)
	switch {
	case errors.Is(err, form.ErrUnsupportedMimeType):
		return nil, validation.Field("image", "unsupported image type")
	case errors.Is(err, form.ErrImageTooLarge):
		return nil, validation.Field("image", "image is too large")
	case err != nil:
		return nil, validation.Field("image", "image must be a base64 data URI")
	}
	return img, nil
}

func writeTags(ctx context.Context, q database.Querier, recipeID int64, tags []int64, replace bool) error {
	if replace {
		if err := q.DeleteRecipeTags(ctx, recipeID); err != nil {
			return fmt.Errorf("deleting recipe tags: %w", err)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	if err := q.AddRecipeTags(ctx, database.AddRecipeTagsParams{RecipeID: recipeID, TagIDs: tags}); err != nil {
		return fmt.Errorf("adding recipe tags: %w", err)
	}
	return nil
}

func writeIngredients(ctx context.Context, q database.Querier, recipeID int64, ingredients []IngredientAmount, replace bool) error {
	if replace {
		if err := q.DeleteRecipeIngredients(ctx, recipeID); err != nil {
			return fmt.Errorf("deleting recipe ingredients: %w", err)
		}
	}
	amounts := make([]int32, len(ingredients))
	for i, ing := range ingredients {
		amounts[i] = ing.Amount
	}
	err := q.AddRecipeIngredients(ctx, database.AddRecipeIngredientsParams{
		RecipeID:      recipeID,
		IngredientIDs: ingredientIDs(ingredients),
		Amounts:       amounts,
	})
	if err != nil {
		return fmt.Errorf("adding recipe ingredients: %w", err)
	}
	return nil
}

// translateWriteError turns constraint violations raised by concurrent
// catalog changes into validation errors.
func translateWriteError(err error) error {
	constraint := database.ConstraintName(err)
	switch {
	case database.IsForeignKeyViolation(err) && strings.Contains(constraint, "tag"):
		return validation.Field("tags", "unknown tag id")
	case database.IsForeignKeyViolation(err):
		return validation.Field("ingredients", "unknown ingredient id")
	case database.IsUniqueViolation(err):
		return validation.Field("ingredients", "duplicate values are not allowed")
	case database.IsCheckViolation(err) && strings.Contains(constraint, "cooking_time"):
		return validation.Field("cooking_time", "ensure this value is greater than or equal to 1")
	case database.IsCheckViolation(err):
		return validation.Field("ingredients", "ensure this value is greater than or equal to 1")
	}
	return err
}

func (s *Service) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to delete recipe image",
			slog.String("key", key), slog.Any("error", err))
	}
}

// Create stores a recipe with its tags and ingredients in one transaction
// and returns its id.
func (s *Service) Create(ctx context.Context, authorID int64, p CreateParams) (int64, error) {
	if err := ValidateCreate(p); err != nil {
		return 0, err
	}
	img, err := decodeImage(p.Image)
	if err != nil {
		return 0, err
	}
	if err := s.checkReferences(ctx, p.Tags, p.Ingredients); err != nil {
		return 0, err
	}

	key, err := s.files.WriteRecipeImage(ctx, img.Suffix, img.Data)
	if err != nil {
		return 0, fmt.Errorf("storing recipe image: %w", err)
	}

	var id int64
	err = s.db.InTx(ctx, func(q database.Querier) error {
		var err error
		id, err = q.CreateRecipe(ctx, database.CreateRecipeParams{
			AuthorID:    authorID,
			Name:        p.Name,
			Image:       key,
			Description: p.Description,
			CookingTime: p.CookingTime,
		})
		if err != nil {
			return fmt.Errorf("creating recipe: %w", err)
		}
		if err := writeTags(ctx, q, id, p.Tags, false); err != nil {
			return err
		}
		return writeIngredients(ctx, q, id, p.Ingredients, false)
	})
	if err != nil {
		s.removeImage(ctx, key)
		return 0, translateWriteError(err)
	}
	return id, nil
}

// Authorize returns the owner row of recipe id when v may modify it.
func (s *Service) Authorize(ctx context.Context, v viewer.Viewer, id int64) (database.GetRecipeOwnerRow, error) {
	owner, err := s.db.GetRecipeOwner(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return owner, ErrNotFound
	}
	if err != nil {
		return owner, fmt.Errorf("getting recipe owner: %w", err)
	}
	if !v.CanManage(owner.AuthorID) {
		return owner, ErrForbidden
	}
	return owner, nil
}

func textParam(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// Update applies p to recipe id for its author or an administrator.
func (s *Service) Update(ctx context.Context, v viewer.Viewer, id int64, p UpdateParams) error {
	owner, err := s.Authorize(ctx, v, id)
	if err != nil {
		return err
	}
	if err := ValidateUpdate(p); err != nil {
		return err
	}

	var img *form.File
	if p.Image != nil {
		if img, err = decodeImage(*p.Image); err != nil {
			return err
		}
	}

	var tags []int64
	if p.Tags != nil {
		tags = *p.Tags
	}
	var ingredients []IngredientAmount
	if p.Ingredients != nil {
		ingredients = *p.Ingredients
	}
	if err := s.checkReferences(ctx, tags, ingredients); err != nil {
		return err
	}

	params := database.UpdateRecipeParams{
		ID:          id,
		Name:        textParam(p.Name),
		Description: textParam(p.Description),
	}
	if p.CookingTime != nil {
		params.CookingTime = pgtype.Int4{Int32: *p.CookingTime, Valid: true}
	}

	var newKey string
	if img != nil {
		newKey, err = s.files.WriteRecipeImage(ctx, img.Suffix, img.Data)
		if err != nil {
			return fmt.Errorf("storing recipe image: %w", err)
		}
		params.Image = pgtype.Text{String: newKey, Valid: true}
	}

	err = s.db.InTx(ctx, func(q database.Querier) error {
		if err := q.UpdateRecipe(ctx, params); err != nil {
			return fmt.Errorf("updating recipe: %w", err)
		}
		if p.Tags != nil {
			if err := writeTags(ctx, q, id, tags, true); err != nil {
				return err
			}
		}
		if p.Ingredients != nil {
			if err := writeIngredients(ctx, q, id, ingredients, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.removeImage(ctx, newKey)
		return translateWriteError(err)
	}

	if newKey != "" {
		s.removeImage(ctx, owner.Image)
	}
	return nil
}

// Delete removes recipe id for its author or an administrator.
func (s *Service) Delete(ctx context.Context, v viewer.Viewer, id int64) error {
	owner, err := s.Authorize(ctx, v, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	s.removeImage(ctx, owner.Image)
	return nil
}
