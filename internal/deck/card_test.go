package deck

import (
	"encoding/json"
	"testing"
)

func TestParseCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "spaces and ten as digits",
			input: "10h 9d  2c",
			expected: []Card{
				{Suit: Hearts, Rank: Ten},
				{Suit: Diamonds, Rank: Nine},
				{Suit: Clubs, Rank: Two},
			},
		},
		{
			name:  "suit glyphs",
			input: "A♠K♥",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AsKx",
			wantErr: true,
		},
		{
			name:    "incomplete card",
			input:   "AsK",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCards() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !cardsEqual(got, tt.expected) {
				t.Errorf("ParseCards() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseCards() should panic on invalid input")
		}
	}()
	MustParseCards("invalid")
}

func TestCardValueAndString(t *testing.T) {
	t.Parallel()

	c := NewCard(Spades, Ace)
	if c.Value() != 14 {
		t.Errorf("Ace value = %d, want 14", c.Value())
	}
	if c.String() != "A♠" {
		t.Errorf("String() = %q, want A♠", c.String())
	}
	if NewCard(Hearts, Two).Value() != 2 {
		t.Error("Two should have value 2")
	}
	if NewCard(Diamonds, Ten).Notation() != "Td" {
		t.Errorf("Notation() = %q, want Td", NewCard(Diamonds, Ten).Notation())
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	t.Parallel()

	in := MustParseCards("AsTd2c")
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["As","Td","2c"]` {
		t.Fatalf("unexpected encoding %s", data)
	}

	var out []Card
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !cardsEqual(in, out) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
