package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/jason-s-yu/big2/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDeck(t *testing.T) {
	deck := CreateDeck()
	require.Len(t, deck, DeckSize)
	assert.False(t, models.Hand(deck).HasDuplicates())
	assert.Equal(t, c(1, 1), deck[0])
	assert.Equal(t, c(1, 5), deck[3])
	assert.Equal(t, c(13, 5), deck[51])
	for _, card := range deck {
		assert.True(t, card.Valid())
	}
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	deck := CreateDeck()
	original := append([]models.Card(nil), deck...)
	shuffled := ShuffleDeck(deck, rand.New(rand.NewSource(7)))

	assert.Equal(t, original, deck, "input must not be modified")
	assert.ElementsMatch(t, deck, shuffled)
	assert.NotEqual(t, deck, shuffled)

	again := ShuffleDeck(deck, rand.New(rand.NewSource(7)))
	assert.Equal(t, shuffled, again, "same seed, same order")
}

func TestDealCards(t *testing.T) {
	deck := ShuffleDeck(CreateDeck(), rand.New(rand.NewSource(42)))
	deal, err := DealCards(deck)
	require.NoError(t, err)

	for i, hand := range deal {
		require.Len(t, hand, HandSize)
		assert.Equal(t, models.Hand(deck[i*HandSize:(i+1)*HandSize]), hand)
	}
	assert.ElementsMatch(t, deck, deal.Cards())

	starters := 0
	for _, hand := range deal {
		if IsStartingPlayer(hand) {
			starters++
		}
	}
	assert.Equal(t, 1, starters)
}

func TestDealCardsRejectsBadDecks(t *testing.T) {
	deck := CreateDeck()

	_, err := DealCards(deck[:51])
	assert.True(t, errors.Is(err, ErrInvalidDeck))

	dup := append([]models.Card(nil), deck...)
	dup[10] = dup[11]
	_, err = DealCards(dup)
	assert.True(t, errors.Is(err, ErrInvalidDeck))

	bad := append([]models.Card(nil), deck...)
	bad[0] = models.Card{Value: 4, Suit: 4}
	_, err = DealCards(bad)
	assert.True(t, errors.Is(err, ErrInvalidDeck))
	assert.True(t, errors.Is(err, models.ErrInvalidCard))
}

func TestIsStartingPlayer(t *testing.T) {
	assert.True(t, IsStartingPlayer(cards(13, 5, 3, 1)))
	assert.False(t, IsStartingPlayer(cards(3, 2, 3, 3, 3, 5)))
	assert.False(t, IsStartingPlayer(nil))
}

func TestNewDealIsAPartition(t *testing.T) {
	deal := NewDeal(rand.New(rand.NewSource(1)))
	assert.NoError(t, deal.validate())
}
