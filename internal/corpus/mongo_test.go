// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package corpus

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeGenres(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     bson.M
		want    []string
		wantErr bool
	}{
		{name: "array", doc: bson.M{"genres": bson.A{"Comedy", "Drama"}}, want: []string{"Comedy", "Drama"}},
		{name: "pipe string", doc: bson.M{"genres": "Action|Thriller"}, want: []string{"Action", "Thriller"}},
		{name: "placeholder", doc: bson.M{"genres": "(no genres listed)"}, want: nil},
		{name: "missing", doc: bson.M{}, want: nil},
		{name: "null", doc: bson.M{"genres": nil}, want: nil},
		{name: "number", doc: bson.M{"genres": 42}, wantErr: true},
		{name: "mixed array", doc: bson.M{"genres": bson.A{"Comedy", 7}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.doc["movieId"] = 1
			tt.doc["title"] = "Toy Story (1995)"
			raw, err := bson.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var doc movieDoc
			if err := bson.Unmarshal(raw, &doc); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			got, err := decodeGenres(doc.Genres)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("decodeGenres() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeGenres() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeGenres() = %v, want %v", got, tt.want)
			}
		})
	}
}
