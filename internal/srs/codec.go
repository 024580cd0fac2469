package srs

import "encoding/json"

// Encode serialises data into the persisted blob format.
func Encode(data Data) ([]byte, error) {
	if data.Cards == nil {
		data.Cards = map[int]ReviewCard{}
	}
	if data.ReviewHistory == nil {
		data.ReviewHistory = []ReviewHistoryEntry{}
	}
	return json.Marshal(data)
}

// Decode parses a persisted blob. Empty or malformed input yields an empty
// aggregate; use DecodeStrict to see the parse error.
func Decode(blob []byte) Data {
	data, err := DecodeStrict(blob)
	if err != nil {
		return NewData()
	}
	return data
}

// DecodeStrict parses a persisted blob and reports malformed input. The map
// key is authoritative for a card's QuestionIndex, and stored values outside
// the model's bounds are pulled back into them.
func DecodeStrict(blob []byte) (Data, error) {
	if len(blob) == 0 {
		return NewData(), nil
	}
	var data Data
	if err := json.Unmarshal(blob, &data); err != nil {
		return NewData(), err
	}
	if data.Cards == nil {
		data.Cards = map[int]ReviewCard{}
	}
	if data.ReviewHistory == nil {
		data.ReviewHistory = []ReviewHistoryEntry{}
	}
	for index, card := range data.Cards {
		data.Cards[index] = sanitize(index, card)
	}
	return data, nil
}

func sanitize(index int, card ReviewCard) ReviewCard {
	card.QuestionIndex = index
	if !(card.EaseFactor >= MinEaseFactor) {
		card.EaseFactor = MinEaseFactor
	}
	card.Interval = min(max(card.Interval, 0), MaxInterval)
	card.Repetitions = max(card.Repetitions, 0)
	return card
}
