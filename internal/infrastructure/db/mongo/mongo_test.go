package mongo

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/catalog-service/internal/core/ports"
)

func TestSortDoc(t *testing.T) {
	tests := []struct {
		field, dir string
		want       bson.D
	}{
		{"id", "asc", bson.D{{Key: "_id", Value: 1}}},
		{"", "desc", bson.D{{Key: "_id", Value: -1}}},
		{"price", "desc", bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}},
		{"name", "asc", bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}},
	}
	for _, tt := range tests {
		if got := sortDoc(tt.field, tt.dir); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("sortDoc(%q, %q): want %v, got %v", tt.field, tt.dir, tt.want, got)
		}
	}
}

func TestProductFilter(t *testing.T) {
	if got := productFilter(ports.ProductFilter{}); len(got) != 0 {
		t.Fatalf("expected empty filter, got %v", got)
	}

	got := productFilter(ports.ProductFilter{CategoryID: 4, Keyword: "c++"})
	if got["category_id"] != int64(4) {
		t.Errorf("unexpected category filter: %v", got["category_id"])
	}
	re, ok := got["name"].(primitive.Regex)
	if !ok || re.Pattern != `c\+\+` || re.Options != "i" {
		t.Errorf("unexpected name filter: %#v", got["name"])
	}
}
