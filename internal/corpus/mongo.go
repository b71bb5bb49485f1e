// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package corpus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/models"
)

// MongoLoader reads documents shaped like
//
//	movies:  {movieId: 1, title: "Toy Story (1995)", genres: ["Animation", ...]}
//	ratings: {userId: 7, movieId: 1, rating: 4.5}
//
// genres may also be a MovieLens pipe-separated string. Catalog order is
// ascending movieId.
type MongoLoader struct {
	URI               string
	Database          string
	MoviesCollection  string
	RatingsCollection string
}

type movieDoc struct {
	MovieID int           `bson:"movieId"`
	Title   string        `bson:"title"`
	Genres  bson.RawValue `bson:"genres"`
}

type ratingDoc struct {
	UserID  int     `bson:"userId"`
	MovieID int     `bson:"movieId"`
	Rating  float64 `bson:"rating"`
}

// Name implements Loader.
func (l *MongoLoader) Name() string { return "mongo" }

// Load implements Loader.
func (l *MongoLoader) Load(ctx context.Context) (*Corpus, error) {
	start := time.Now()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(l.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo corpus: connect: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo corpus: ping: %w", err)
	}

	db := client.Database(l.Database)
	movies, err := l.loadMovies(ctx, db.Collection(l.MoviesCollection))
	if err != nil {
		return nil, err
	}
	ratings, err := l.loadRatings(ctx, db.Collection(l.RatingsCollection))
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("database", l.Database).
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Dur("duration", time.Since(start)).
		Msg("Loaded corpus from MongoDB")

	return &Corpus{Movies: movies, Ratings: ratings}, nil
}

func (l *MongoLoader) loadMovies(ctx context.Context, coll *mongo.Collection) ([]models.Movie, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "movieId", Value: 1}}).
		SetProjection(bson.M{"_id": 0, "movieId": 1, "title": 1, "genres": 1})

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo corpus: find movies: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	for cursor.Next(ctx) {
		var doc movieDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: movie document: %w", ErrMalformed, err)
		}
		genres, err := decodeGenres(doc.Genres)
		if err != nil {
			return nil, fmt.Errorf("%w: movie %d: %w", ErrMalformed, doc.MovieID, err)
		}
		movies = append(movies, models.Movie{
			ID:     doc.MovieID,
			Title:  strings.TrimSpace(doc.Title),
			Genres: genres,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo corpus: movies cursor: %w", err)
	}
	return movies, nil
}

func (l *MongoLoader) loadRatings(ctx context.Context, coll *mongo.Collection) ([]models.Rating, error) {
	opts := options.Find().
		SetBatchSize(10000).
		SetProjection(bson.M{"_id": 0, "userId": 1, "movieId": 1, "rating": 1})

	var ratings []models.Rating
	if n, err := coll.EstimatedDocumentCount(ctx); err == nil {
		ratings = make([]models.Rating, 0, n)
	}

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo corpus: find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc ratingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: rating document: %w", ErrMalformed, err)
		}
		ratings = append(ratings, models.Rating{UserID: doc.UserID, MovieID: doc.MovieID, Value: doc.Rating})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo corpus: ratings cursor: %w", err)
	}
	return ratings, nil
}

// decodeGenres accepts an array of strings, a pipe-separated string, or a
// missing field.
func decodeGenres(rv bson.RawValue) ([]string, error) {
	switch rv.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return nil, nil
	case bsontype.String:
		return models.ParseGenres(rv.StringValue()), nil
	case bsontype.Array:
		values, err := rv.Array().Values()
		if err != nil {
			return nil, err
		}
		genres := make([]string, 0, len(values))
		for _, v := range values {
			s, ok := v.StringValueOK()
			if !ok {
				return nil, fmt.Errorf("genre of type %s", v.Type)
			}
			genres = append(genres, s)
		}
		return models.ParseGenres(strings.Join(genres, "|")), nil
	default:
		return nil, fmt.Errorf("genres of type %s", rv.Type)
	}
}
