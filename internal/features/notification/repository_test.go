package notification

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A first-time partial save must not zero the fields it leaves alone:
// the insert side has to carry the defaults for everything the update
// does not mention.
func TestPreferenceInsertDocKeepsDefaults(t *testing.T) {
	userID := primitive.NewObjectID()
	set := bson.M{"digest_frequency": "weekly", "updated_at": time.Now()}

	insert := preferenceInsertDoc(userID, set)

	if insert["user_id"] != userID {
		t.Errorf("user_id = %v, want %v", insert["user_id"], userID)
	}
	for _, field := range []string{"email_notifications", "approval_alerts", "system_alerts"} {
		if insert[field] != true {
			t.Errorf("%s = %v, want default true", field, insert[field])
		}
	}
	for k := range set {
		if _, ok := insert[k]; ok {
			t.Errorf("key %q appears in both $set and $setOnInsert", k)
		}
	}
}

func TestPreferenceInsertDocFullSet(t *testing.T) {
	userID := primitive.NewObjectID()
	set := bson.M{
		"email_notifications": false,
		"approval_alerts":     false,
		"system_alerts":       false,
		"digest_frequency":    "never",
		"updated_at":          time.Now(),
	}

	insert := preferenceInsertDoc(userID, set)

	if len(insert) != 1 {
		t.Errorf("insert = %v, want only user_id", insert)
	}
	if insert["user_id"] != userID {
		t.Errorf("user_id = %v, want %v", insert["user_id"], userID)
	}
}
