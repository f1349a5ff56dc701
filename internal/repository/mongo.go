package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecochef/ecochef/backend/internal/models"
)

const (
	recipesCollection   = "recipes"
	feedbackCollection  = "feedback"
	favoritesCollection = "favorites"
	usersCollection     = "users"
)

// MongoStore implements RecipeStore and UserStore on a MongoDB database.
type MongoStore struct {
	db        *mongo.Database
	recipes   *mongo.Collection
	feedback  *mongo.Collection
	favorites *mongo.Collection
	users     *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		db:        db,
		recipes:   db.Collection(recipesCollection),
		feedback:  db.Collection(feedbackCollection),
		favorites: db.Collection(favoritesCollection),
		users:     db.Collection(usersCollection),
	}
}

type recipeDocument struct {
	ID                 string    `bson:"_id"`
	Name               string    `bson:"recipe_name"`
	Ingredients        []string  `bson:"ingredients"`
	MissingIngredients []string  `bson:"missing_ingredients,omitempty"`
	Instructions       []string  `bson:"instructions"`
	CookingTime        string    `bson:"cooking_time"`
	DietaryInformation string    `bson:"dietary_information,omitempty"`
	Tags               []string  `bson:"tags,omitempty"`
	UserID             string    `bson:"user_id"`
	CreatedAt          time.Time `bson:"created_at"`
}

type favoriteDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	RecipeID  string    `bson:"recipe_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type feedbackDocument struct {
	ID        string    `bson:"_id"`
	RecipeID  string    `bson:"recipe_id"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment,omitempty"`
	UserID    string    `bson:"user_id"`
	UserName  string    `bson:"user_name"`
	CreatedAt time.Time `bson:"created_at"`
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toRecipeDocument(r *models.Recipe) recipeDocument {
	return recipeDocument{
		ID:                 r.ID,
		Name:               r.Name,
		Ingredients:        r.Ingredients,
		MissingIngredients: r.MissingIngredients,
		Instructions:       r.Instructions,
		CookingTime:        r.CookingTime,
		DietaryInformation: r.DietaryInformation,
		Tags:               r.Tags,
		UserID:             r.UserID,
		CreatedAt:          r.CreatedAt,
	}
}

func (d recipeDocument) model() models.Recipe {
	return models.Recipe{
		ID:                 d.ID,
		Name:               d.Name,
		Ingredients:        d.Ingredients,
		MissingIngredients: d.MissingIngredients,
		Instructions:       d.Instructions,
		CookingTime:        d.CookingTime,
		DietaryInformation: d.DietaryInformation,
		Tags:               d.Tags,
		UserID:             d.UserID,
		CreatedAt:          d.CreatedAt,
	}
}

func (d feedbackDocument) model() models.Feedback {
	return models.Feedback{
		ID:        d.ID,
		RecipeID:  d.RecipeID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		UserID:    d.UserID,
		UserName:  d.UserName,
		CreatedAt: d.CreatedAt,
	}
}

func (d userDocument) model() *models.User {
	return &models.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// EnsureIndexes creates the unique and ordering indexes the store relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.recipes: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		s.favorites: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "recipe_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "recipe_id", Value: 1}}},
		},
		s.feedback: {
			{Keys: bson.D{{Key: "recipe_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		s.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *MongoStore) InsertRecipes(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(recipes))
	for _, r := range recipes {
		if r.ID == "" {
			r.ID = newID()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now()
		}
		docs = append(docs, toRecipeDocument(r))
	}
	if _, err := s.recipes.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert recipes: %w", err)
	}
	return nil
}

func (s *MongoStore) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var doc recipeDocument
	if err := s.recipes.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	recipe := doc.model()
	return &recipe, nil
}

func containsFold(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}

func (s *MongoStore) ListRecipes(ctx context.Context, filters models.RecipeFilters) ([]models.Recipe, error) {
	filter := bson.M{}
	if filters.UserID != "" {
		filter["user_id"] = filters.UserID
	}
	if tag := strings.TrimSpace(filters.Tag); tag != "" {
		filter["tags"] = bson.M{"$regex": "^" + regexp.QuoteMeta(tag) + "$", "$options": "i"}
	}
	if diet := strings.TrimSpace(filters.Dietary); diet != "" {
		filter["dietary_information"] = containsFold(diet)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		filter["$or"] = bson.A{
			bson.M{"recipe_name": containsFold(search)},
			bson.M{"ingredients": containsFold(search)},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(pageSize(filters.Limit))).
		SetSkip(int64(filters.Offset))

	cursor, err := s.recipes.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return decodeRecipes(ctx, cursor)
}

func decodeRecipes(ctx context.Context, cursor *mongo.Cursor) ([]models.Recipe, error) {
	var docs []recipeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	recipes := make([]models.Recipe, 0, len(docs))
	for _, d := range docs {
		recipes = append(recipes, d.model())
	}
	return recipes, nil
}

// DeleteRecipe removes the recipe, then its feedback and favorites.
func (s *MongoStore) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.recipes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrRecipeNotFound
	}
	if _, err := s.feedback.DeleteMany(ctx, bson.M{"recipe_id": id}); err != nil {
		return fmt.Errorf("failed to delete recipe feedback: %w", err)
	}
	if _, err := s.favorites.DeleteMany(ctx, bson.M{"recipe_id": id}); err != nil {
		return fmt.Errorf("failed to delete recipe favorites: %w", err)
	}
	return nil
}

func (s *MongoStore) AddFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	doc := favoriteDocument{ID: newID(), UserID: userID, RecipeID: recipeID, CreatedAt: now()}
	if _, err := s.favorites.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

func (s *MongoStore) RemoveFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	res, err := s.favorites.DeleteOne(ctx, bson.M{"user_id": userID, "recipe_id": recipeID})
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	cursor, err := s.favorites.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"recipe_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite ids: %w", err)
	}
	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode favorite ids: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.RecipeID)
	}
	return ids, nil
}

func (s *MongoStore) ListFavorites(ctx context.Context, userID string) ([]models.Recipe, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         recipesCollection,
			"localField":   "recipe_id",
			"foreignField": "_id",
			"as":           "recipe",
		}}},
		{{Key: "$unwind", Value: "$recipe"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$recipe"}}},
	}
	cursor, err := s.favorites.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return decodeRecipes(ctx, cursor)
}

func (s *MongoStore) InsertFeedback(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = newID()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = now()
	}
	doc := feedbackDocument{
		ID:        feedback.ID,
		RecipeID:  feedback.RecipeID,
		Rating:    feedback.Rating,
		Comment:   feedback.Comment,
		UserID:    feedback.UserID,
		UserName:  feedback.UserName,
		CreatedAt: feedback.CreatedAt,
	}
	if _, err := s.feedback.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (s *MongoStore) ListFeedback(ctx context.Context, filters models.FeedbackFilters) ([]models.Feedback, error) {
	filter := bson.M{}
	if filters.RecipeID != "" {
		filter["recipe_id"] = filters.RecipeID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(pageSize(filters.Limit))).
		SetSkip(int64(filters.Offset))

	cursor, err := s.feedback.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	var docs []feedbackDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	feedback := make([]models.Feedback, 0, len(docs))
	for _, d := range docs {
		feedback = append(feedback, d.model())
	}
	return feedback, nil
}

func (s *MongoStore) RatingSummary(ctx context.Context, recipeID string) (*models.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"recipe_id": recipeID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$recipe_id",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := s.feedback.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}
	var rows []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rating summary: %w", err)
	}
	summary := &models.RatingSummary{RecipeID: recipeID}
	if len(rows) > 0 {
		summary.Average = rows[0].Average
		summary.Count = rows[0].Count
	}
	return summary, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	ts := now()
	user.CreatedAt, user.UpdatedAt = ts, ts

	doc := userDocument{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.model(), nil
}
