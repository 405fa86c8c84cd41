package integration

import (
	"context"
	"testing"
	"time"

	"openshelf/internal/lending"
	"openshelf/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLendingService_Integration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reader, err := env.userService.Register(ctx, "reader@x.com", "p1", "Ada", "Lovelace")
	require.NoError(t, err)

	t.Run("BorrowAndReturn", func(t *testing.T) {
		book, err := env.lendingService.AddBook(ctx, "Moby Dick", "Melville")
		require.NoError(t, err)
		require.True(t, book.Available)
		assert.Equal(t, models.BookStatusAvailable, book.Status())

		borrowed, err := env.lendingService.Borrow(ctx, book.ID, reader)
		require.NoError(t, err)
		assert.False(t, borrowed.Available)
		assert.Equal(t, models.BookStatusBorrowed, borrowed.Status())
		require.NotNil(t, borrowed.ReaderID)
		assert.Equal(t, reader.ID, *borrowed.ReaderID)
		require.NotNil(t, borrowed.ReaderName)
		assert.Equal(t, "Ada Lovelace", *borrowed.ReaderName)
		assert.True(t, borrowed.Consistent())

		// Due date is 14 calendar days out
		require.NotNil(t, borrowed.DueDate)
		expected := time.Now().AddDate(0, 0, 14)
		assert.WithinDuration(t, expected, *borrowed.DueDate, time.Minute)

		returned, err := env.lendingService.Return(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, returned.Available)
		assert.Nil(t, returned.ReaderID)
		assert.Nil(t, returned.ReaderName)
		assert.Nil(t, returned.DueDate)
		assert.True(t, returned.Consistent())
	})

	t.Run("BorrowBorrowedBookFails", func(t *testing.T) {
		other, err := env.userService.Register(ctx, "other@x.com", "p2", "Grace", "Hopper")
		require.NoError(t, err)

		book, err := env.lendingService.AddBook(ctx, "Frankenstein", "Shelley")
		require.NoError(t, err)

		first, err := env.lendingService.Borrow(ctx, book.ID, reader)
		require.NoError(t, err)

		_, err = env.lendingService.Borrow(ctx, book.ID, other)
		assert.ErrorIs(t, err, lending.ErrBookNotAvailable)

		// The original borrower's name and due date are untouched
		unchanged, err := env.lendingService.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, *first.ReaderID, *unchanged.ReaderID)
		assert.Equal(t, "Ada Lovelace", *unchanged.ReaderName)
		assert.Equal(t, first.DueDate.Unix(), unchanged.DueDate.Unix())
	})

	t.Run("ReturnAvailableBookFails", func(t *testing.T) {
		book, err := env.lendingService.AddBook(ctx, "Dracula", "Stoker")
		require.NoError(t, err)

		_, err = env.lendingService.Return(ctx, book.ID)
		assert.ErrorIs(t, err, lending.ErrBookNotBorrowed)

		unchanged, err := env.lendingService.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, unchanged.Available)
		assert.True(t, unchanged.Consistent())
	})

	t.Run("BorrowMissingBookFails", func(t *testing.T) {
		_, err := env.lendingService.Borrow(ctx, uuid.New().String(), reader)
		assert.ErrorIs(t, err, lending.ErrBookNotFound)

		_, err = env.lendingService.Return(ctx, uuid.New().String())
		assert.ErrorIs(t, err, lending.ErrBookNotFound)
	})

	t.Run("DeleteMissingBookIsNoOp", func(t *testing.T) {
		assert.NoError(t, env.lendingService.DeleteBook(ctx, uuid.New().String()))
	})

	t.Run("DeleteBookRemovesIt", func(t *testing.T) {
		book, err := env.lendingService.AddBook(ctx, "Short Lived", "Anon")
		require.NoError(t, err)

		require.NoError(t, env.lendingService.DeleteBook(ctx, book.ID))

		_, err = env.lendingService.GetBook(ctx, book.ID)
		assert.ErrorIs(t, err, lending.ErrBookNotFound)
	})

	t.Run("InvariantHoldsAfterAnySequence", func(t *testing.T) {
		book, err := env.lendingService.AddBook(ctx, "Invariant", "Checker")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = env.lendingService.Borrow(ctx, book.ID, reader)
			require.NoError(t, err)
			_, err = env.lendingService.Return(ctx, book.ID)
			require.NoError(t, err)
		}
		// Failed transitions must not break consistency either
		_, _ = env.lendingService.Return(ctx, book.ID)
		_, err = env.lendingService.Borrow(ctx, book.ID, reader)
		require.NoError(t, err)
		_, _ = env.lendingService.Borrow(ctx, book.ID, reader)

		books, err := env.lendingService.ListBooks(ctx)
		require.NoError(t, err)
		for _, b := range books {
			assert.True(t, b.Consistent(), "book %s flag/reference mismatch", b.ID)
		}
	})
}
