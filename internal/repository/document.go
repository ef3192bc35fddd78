package repository

import (
	"encoding/json"

	"github.com/waktunyapuasa/puasa/internal/model"
)

// checkinDocument is the JSON form written by the key-value and object
// backends. The id is kept out of the API shape but must survive storage.
type checkinDocument struct {
	ID string `json:"id"`
	*model.Checkin
}

func encodeCheckin(checkin *model.Checkin) ([]byte, error) {
	return json.Marshal(checkinDocument{ID: checkin.ID, Checkin: checkin})
}

func decodeCheckin(raw []byte) (*model.Checkin, error) {
	doc := checkinDocument{Checkin: &model.Checkin{}}
	err := json.Unmarshal(raw, &doc)
	if err != nil {
		return nil, err
	}
	doc.Checkin.ID = doc.ID
	return doc.Checkin, nil
}
