package tcgdex

import (
	"encoding/json"
	"fmt"
	"strconv"

	"tcgcollectr/internal/catalog"
)

func decode(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", catalog.ErrUpstreamMalformed, err)
	}
	return raw, nil
}

func parseSetList(data []byte) ([]catalog.Set, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: set listing is not an array", catalog.ErrUpstreamMalformed)
	}

	sets := make([]catalog.Set, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: set %d is not an object", catalog.ErrUpstreamMalformed, i)
		}
		set, err := mapSet(obj)
		if err != nil {
			return nil, fmt.Errorf("set %d: %w", i, err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func mapSet(obj map[string]any) (catalog.Set, error) {
	id, err := requireString(obj, "id")
	if err != nil {
		return catalog.Set{}, err
	}
	name, err := requireString(obj, "name")
	if err != nil {
		return catalog.Set{}, err
	}
	series, err := optionalString(obj, "series")
	if err != nil {
		return catalog.Set{}, err
	}
	total, err := optionalInt(obj, "total")
	if err != nil {
		return catalog.Set{}, err
	}
	releaseDate, err := optionalString(obj, "releaseDate")
	if err != nil {
		return catalog.Set{}, err
	}
	logo, err := optionalString(obj, "logo")
	if err != nil {
		return catalog.Set{}, err
	}
	symbol, err := optionalString(obj, "symbol")
	if err != nil {
		return catalog.Set{}, err
	}

	return catalog.Set{
		ID:          id,
		Name:        name,
		Series:      series,
		TotalCards:  total,
		ReleaseDate: releaseDate,
		LogoURL:     logo,
		SymbolURL:   symbol,
		TCGType:     catalog.TCGTypePokemon,
	}, nil
}

func parseSetCards(setID string, data []byte) ([]catalog.Card, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: set detail is not an object", catalog.ErrUpstreamMalformed)
	}
	cardsVal, ok := obj["cards"]
	if !ok || cardsVal == nil {
		return nil, fmt.Errorf("%w: set detail has no cards field", catalog.ErrUpstreamMalformed)
	}
	items, ok := cardsVal.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: cards field is not an array", catalog.ErrUpstreamMalformed)
	}

	cards := make([]catalog.Card, 0, len(items))
	for i, item := range items {
		cardObj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: card %d is not an object", catalog.ErrUpstreamMalformed, i)
		}
		card, err := mapCard(cardObj, setID)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func parseCardDetail(data []byte) (catalog.Card, error) {
	raw, err := decode(data)
	if err != nil {
		return catalog.Card{}, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return catalog.Card{}, fmt.Errorf("%w: card detail is not an object", catalog.ErrUpstreamMalformed)
	}

	setVal, ok := obj["set"]
	if !ok {
		return catalog.Card{}, fmt.Errorf("%w: card detail has no set field", catalog.ErrUpstreamMalformed)
	}
	setObj, ok := setVal.(map[string]any)
	if !ok {
		return catalog.Card{}, fmt.Errorf("%w: set field is not an object", catalog.ErrUpstreamMalformed)
	}
	setID, err := requireString(setObj, "id")
	if err != nil {
		return catalog.Card{}, err
	}

	return mapCard(obj, setID)
}

func mapCard(obj map[string]any, setID string) (catalog.Card, error) {
	id, err := requireString(obj, "id")
	if err != nil {
		return catalog.Card{}, err
	}
	name, err := requireString(obj, "name")
	if err != nil {
		return catalog.Card{}, err
	}
	localID, err := optionalLocalID(obj, "localId")
	if err != nil {
		return catalog.Card{}, err
	}
	image, err := optionalString(obj, "image")
	if err != nil {
		return catalog.Card{}, err
	}
	category, err := optionalString(obj, "category")
	if err != nil {
		return catalog.Card{}, err
	}
	illustrator, err := optionalString(obj, "illustrator")
	if err != nil {
		return catalog.Card{}, err
	}
	rarity, err := optionalString(obj, "rarity")
	if err != nil {
		return catalog.Card{}, err
	}

	return catalog.Card{
		ID:          id,
		SetID:       setID,
		LocalID:     localID,
		Name:        name,
		Category:    category,
		Illustrator: illustrator,
		Rarity:      rarity,
		ImageURL:    image,
	}, nil
}

func requireString(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: missing field %q", catalog.ErrUpstreamMalformed, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: field %q is not a non-empty string", catalog.ErrUpstreamMalformed, key)
	}
	return s, nil
}

func optionalString(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", catalog.ErrUpstreamMalformed, key)
	}
	return s, nil
}

func optionalInt(obj map[string]any, key string) (int, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: field %q is not a number", catalog.ErrUpstreamMalformed, key)
	}
	return int(f), nil
}

// optionalLocalID accepts the upstream's string-or-number local IDs and
// normalizes them to strings.
func optionalLocalID(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: field %q is neither string nor number", catalog.ErrUpstreamMalformed, key)
	}
}
