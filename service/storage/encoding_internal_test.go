package storage

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/mustersig/muster/testing/mocks"
)

func TestEncodeKey(t *testing.T) {
	t.Run("prefix only", func(t *testing.T) {
		t.Parallel()

		key := EncodeKey(PrefixAccount)

		assert.Equal(t, []byte{PrefixAccount}, key)
	})

	t.Run("chain and address segments", func(t *testing.T) {
		t.Parallel()

		address := mocks.GenericAddress(0)

		key := EncodeKey(PrefixAccount, uint64(5), address)

		assert.Len(t, key, 1+8+common.AddressLength)
		assert.Equal(t, uint8(PrefixAccount), key[0])
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 5}, key[1:9])
		assert.Equal(t, address[:], key[9:])
	})

	t.Run("hash segment", func(t *testing.T) {
		t.Parallel()

		txHash := mocks.GenericHash(0)

		key := EncodeKey(PrefixRecord, txHash)

		assert.Len(t, key, 1+common.HashLength)
		assert.Equal(t, txHash[:], key[1:])
	})

	t.Run("keys order by chain first", func(t *testing.T) {
		t.Parallel()

		low := EncodeKey(PrefixRecordsForAccount, uint64(1), mocks.GenericAddress(9), mocks.GenericHash(0))
		high := EncodeKey(PrefixRecordsForAccount, uint64(2), mocks.GenericAddress(0), mocks.GenericHash(0))

		assert.Less(t, string(low), string(high))
	})

	t.Run("unknown segment type panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			EncodeKey(PrefixAccount, "bogus")
		})
	})
}
