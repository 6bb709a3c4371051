package repositories

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"product-catalog/models"
)

func decodeRaw(t *testing.T, raw bson.M) productDocument {
	t.Helper()
	data, err := bson.Marshal(raw)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc productDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return doc
}

func TestProductDocumentLegacyImageField(t *testing.T) {
	oid := primitive.NewObjectID()
	p := decodeRaw(t, bson.M{"_id": oid, "name": "Sink A", "Image": "uploads/a.jpg"}).toModel()

	if p.ID != oid.Hex() {
		t.Errorf("ID = %q, want %q", p.ID, oid.Hex())
	}
	if len(p.Images) != 1 || p.Images[0] != "uploads/a.jpg" {
		t.Errorf("Images = %v", p.Images)
	}
}

func TestProductDocumentImagesShapes(t *testing.T) {
	single := decodeRaw(t, bson.M{"_id": primitive.NewObjectID(), "images": "a.jpg"}).toModel()
	many := decodeRaw(t, bson.M{"_id": primitive.NewObjectID(), "images": bson.A{"a.jpg"}}).toModel()
	none := decodeRaw(t, bson.M{"_id": primitive.NewObjectID()}).toModel()

	if len(single.Images) != 1 || len(many.Images) != 1 || single.Images[0] != many.Images[0] {
		t.Errorf("single %v != array %v", single.Images, many.Images)
	}
	if none.Images == nil || len(none.Images) != 0 {
		t.Errorf("missing images = %#v, want empty list", none.Images)
	}
}

func TestProductDocumentEncodesWithoutLegacyField(t *testing.T) {
	doc := productDocument{ID: primitive.NewObjectID()}
	doc.Name = "x"
	doc.Images = []string{"a.jpg"}

	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["Image"]; ok {
		t.Error("legacy field written")
	}
	if _, ok := raw["images"]; !ok {
		t.Error("images not written")
	}
}

func TestUpdateDocumentLeavesUnknownFields(t *testing.T) {
	p := &models.Product{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Sink B",
		Images:     models.StringList{"b.jpg"},
		Attributes: map[string]string{"width": "40"},
	}

	update, err := updateDocument(p)
	if err != nil {
		t.Fatalf("updateDocument: %v", err)
	}

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("$set = %#v", update["$set"])
	}
	if set["name"] != "Sink B" {
		t.Errorf("name = %v", set["name"])
	}
	if _, ok := set["images"]; !ok {
		t.Error("images not set")
	}
	for _, key := range []string{"_id", "height", "Image"} {
		if _, ok := set[key]; ok {
			t.Errorf("$set touches %q", key)
		}
	}

	unset, ok := update["$unset"].(bson.M)
	if !ok {
		t.Fatalf("$unset = %#v", update["$unset"])
	}
	if _, ok := unset["Image"]; !ok || len(unset) != 1 {
		t.Errorf("$unset = %v, want only the legacy image field", unset)
	}
}
