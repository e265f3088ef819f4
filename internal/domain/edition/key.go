package edition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidEdition  = errors.New("invalid edition")
	ErrInvalidGameweek = errors.New("invalid gameweek")
	ErrInvalidKey      = errors.New("invalid edition key")
)

// ID identifies one edition: a positive integer or the literal "test".
type ID string

const (
	Test    ID = "test"
	Default ID = "1"
)

const keyPrefix = "edition"

func ParseID(raw string) (ID, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.TrimPrefix(value, keyPrefix)
	if value == string(Test) {
		return Test, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidEdition, raw)
	}
	return ID(strconv.Itoa(n)), nil
}

func FromNumber(n int) ID {
	return ID(strconv.Itoa(n))
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsTest() bool {
	return id == Test
}

func (id ID) Valid() bool {
	_, err := ParseID(string(id))
	return err == nil && id != ""
}

// Segment renders the edition part of a storage key, e.g. "edition1" or "editiontest".
func (id ID) Segment() string {
	return keyPrefix + string(id)
}

// Gameweek is an ordinal 1..10 followed by the terminal tiebreak round.
type Gameweek int

const (
	FirstGameweek Gameweek = 1
	LastRegular   Gameweek = 10
	Tiebreak      Gameweek = 11
)

const (
	gameweekPrefix = "gw"
	tiebreakToken  = "tiebreak"
)

// AllGameweeks returns every round of an edition in play order.
func AllGameweeks() []Gameweek {
	out := make([]Gameweek, 0, int(Tiebreak))
	for gw := FirstGameweek; gw <= Tiebreak; gw++ {
		out = append(out, gw)
	}
	return out
}

func ParseGameweek(raw string) (Gameweek, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.TrimPrefix(value, gameweekPrefix)
	if value == tiebreakToken {
		return Tiebreak, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGameweek, raw)
	}
	gw := Gameweek(n)
	if !gw.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGameweek, raw)
	}
	return gw, nil
}

func (g Gameweek) Valid() bool {
	return g >= FirstGameweek && g <= Tiebreak
}

func (g Gameweek) IsTiebreak() bool {
	return g == Tiebreak
}

// Key renders the bare gameweek key: "gw1".."gw10" or "gwtiebreak".
func (g Gameweek) Key() string {
	if g.IsTiebreak() {
		return gameweekPrefix + tiebreakToken
	}
	return gameweekPrefix + strconv.Itoa(int(g))
}

func (g Gameweek) String() string {
	if g.IsTiebreak() {
		return tiebreakToken
	}
	return strconv.Itoa(int(g))
}

// Key addresses one gameweek of one edition. A Key with an empty Edition
// is a legacy key written before editions existed.
type Key struct {
	Edition  ID
	Gameweek Gameweek
}

func NewKey(id ID, gw Gameweek) Key {
	return Key{Edition: id, Gameweek: gw}
}

func (k Key) IsLegacy() bool {
	return k.Edition == ""
}

// String renders "edition{E}_{gameweekKey}", or the bare gameweek key for legacy keys.
func (k Key) String() string {
	if k.IsLegacy() {
		return k.Gameweek.Key()
	}
	return k.Edition.Segment() + "_" + k.Gameweek.Key()
}

// Legacy returns the pre-edition form of the key.
func (k Key) Legacy() Key {
	return Key{Gameweek: k.Gameweek}
}

func (k Key) Validate() error {
	if !k.Gameweek.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidGameweek, int(k.Gameweek))
	}
	if k.IsLegacy() {
		return nil
	}
	if _, err := ParseID(string(k.Edition)); err != nil {
		return err
	}
	return nil
}

// ParseKey accepts both "edition{E}_{gw}" and legacy bare "gw{N}" / "gwtiebreak".
func ParseKey(raw string) (Key, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return Key{}, fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	if !strings.HasPrefix(value, keyPrefix) {
		if !strings.HasPrefix(value, gameweekPrefix) {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
		}
		gw, err := ParseGameweek(value)
		if err != nil {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
		}
		return Key{Gameweek: gw}, nil
	}

	editionPart, gwPart, ok := strings.Cut(value, "_")
	if !ok || !strings.HasPrefix(gwPart, gameweekPrefix) {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	id, err := ParseID(editionPart)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	gw, err := ParseGameweek(gwPart)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	return Key{Edition: id, Gameweek: gw}, nil
}
