package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockroom/internal/domain/entity"
	"stockroom/internal/infrastructure/memory"
	"stockroom/internal/usecase"
)

type harness struct {
	repo *memory.ItemRepository
	out  *bytes.Buffer
}

func run(t *testing.T, script string, opts memory.Options, policy usecase.Policy) harness {
	t.Helper()
	if opts.Capacity == 0 {
		opts.Capacity = memory.DefaultCapacity
	}
	repo := memory.NewItemRepository(opts)
	uc := usecase.NewItemUsecase(repo, policy, zap.NewNop())

	out := &bytes.Buffer{}
	handler := NewItemHandler(uc, strings.NewReader(script), out, zap.NewNop())
	require.NoError(t, handler.Run(context.Background()))
	return harness{repo: repo, out: out}
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

// add returns the menu input that adds one item.
func add(category, id, name, quantity, price string) string {
	return lines("1", category, id, name, quantity, price)
}

func TestItemHandler_AddAndList(t *testing.T) {
	h := run(t, add("2", "TV01", "Smart Television", "3", "399.9")+lines("5", "0"), memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Contains(t, out, "Item added successfully!")
	assert.Contains(t, out, "Smart Television")
	assert.Contains(t, out, "399.90")
	assert.Contains(t, out, "Electronics")
	assert.Contains(t, out, "Exiting program...")
	assert.Equal(t, 1, h.repo.Len())
}

func TestItemHandler_AddRetriesInvalidInput(t *testing.T) {
	script := lines(
		"1",
		"4", "abc", "3", // category
		"bad-id", "G1", // id
		"", "Board Game", // name
		"0", "x", "2", // quantity
		"-1", "free", "19.99", // price
		"0",
	)
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Invalid choice! Please enter 1, 2, or 3."))
	assert.Contains(t, out, "Invalid ID. Try again")
	assert.Contains(t, out, "Name cannot be empty.")
	assert.Equal(t, 2, strings.Count(out, "Invalid input. Please enter a positive integer."))
	assert.Equal(t, 2, strings.Count(out, "Invalid input. Please enter a positive number."))
	assert.Contains(t, out, "Item added successfully!")

	item, err := h.repo.FindByID(context.Background(), "G1", entity.MatchExact)
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryEntertainment, item.Category)
	assert.Equal(t, "Board Game", item.Name)
}

func TestItemHandler_LongName(t *testing.T) {
	name := strings.Repeat("n", 120)
	h := run(t, add("1", "A1", name, "3", "9.99")+lines("0"), memory.Options{}, usecase.DefaultPolicy())

	assert.Contains(t, h.out.String(), "Item added successfully!")
	item, err := h.repo.FindByID(context.Background(), "A1", entity.MatchExact)
	require.NoError(t, err)
	assert.Equal(t, name, item.Name)
}

func TestItemHandler_OversizedLines(t *testing.T) {
	huge := strings.Repeat("x", 70000)

	tests := []struct {
		name   string
		script string
		want   string
		items  int
	}{
		{
			name:   "menu choice",
			script: lines(huge, "0"),
			want:   "Invalid input. Please enter a valid option.",
		},
		{
			name:   "id prompt asks again",
			script: lines("1", "1", huge, "A1", "Shirt", "1", "1", "0"),
			want:   "Invalid ID. Try again",
			items:  1,
		},
		{
			name:   "remove prompt",
			script: add("1", "A1", "Shirt", "1", "1") + lines("3", huge, "0"),
			want:   "Invalid input: input longer than 4096 bytes",
			items:  1,
		},
		{
			name:   "last line without newline",
			script: huge,
			want:   "Invalid input. Please enter a valid option.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := run(t, tt.script, memory.Options{}, usecase.DefaultPolicy())

			out := h.out.String()
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "Exiting program...")
			assert.NotContains(t, out, huge[:maxLineLength])
			assert.Equal(t, tt.items, h.repo.Len())
		})
	}
}

func TestItemHandler_LineAtLimit(t *testing.T) {
	name := strings.Repeat("n", maxLineLength)
	h := run(t, add("1", "A1", name, "1", "1")+lines("0"), memory.Options{}, usecase.DefaultPolicy())

	item, err := h.repo.FindByID(context.Background(), "A1", entity.MatchExact)
	require.NoError(t, err)
	assert.Len(t, item.Name, maxLineLength)
}

func TestItemHandler_MenuNotesExitKey(t *testing.T) {
	h := run(t, lines("q"), memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Contains(t, out, "[9] - Category Summary")
	assert.Contains(t, out, "[0] - Exit (q also works; 9 no longer exits)")
	assert.Contains(t, out, "Exiting program...")
}

func TestItemHandler_ThreeDigitIDs(t *testing.T) {
	policy := usecase.DefaultPolicy()
	policy.IDs = entity.IDPolicy{Format: entity.IDFormatThreeDigits}

	h := run(t, lines("1", "1", "A12", "1234", "042", "Scarf", "1", "5", "0"), memory.Options{}, policy)

	assert.Equal(t, 2, strings.Count(h.out.String(), "Invalid ID. Try again"))
	_, err := h.repo.FindByID(context.Background(), "042", entity.MatchExact)
	assert.NoError(t, err)
}

func TestItemHandler_EmptyInventoryGuards(t *testing.T) {
	h := run(t, lines("2", "3", "4", "5", "6", "7", "8", "0"), memory.Options{}, usecase.DefaultPolicy())

	assert.Equal(t, 7, strings.Count(h.out.String(), "No items added yet!"))
}

func TestItemHandler_InvalidMenuChoice(t *testing.T) {
	h := run(t, lines("12", "hello", "0"), memory.Options{}, usecase.DefaultPolicy())

	assert.Equal(t, 2, strings.Count(h.out.String(), "Invalid input. Please enter a valid option."))
}

func TestItemHandler_EOFExitsCleanly(t *testing.T) {
	h := run(t, "1\n2\nTV", memory.Options{}, usecase.DefaultPolicy())

	assert.Contains(t, h.out.String(), "Exiting program...")
	assert.Equal(t, 0, h.repo.Len())
}

func TestItemHandler_FullInventory(t *testing.T) {
	script := add("1", "A1", "Shirt", "1", "1") + add("1", "A2", "Pants", "1", "1") + lines("0")
	h := run(t, script, memory.Options{Capacity: 1}, usecase.DefaultPolicy())

	assert.Contains(t, h.out.String(), "Inventory is full!")
	assert.Equal(t, 1, h.repo.Len())
}

func TestItemHandler_DuplicateRejected(t *testing.T) {
	script := add("1", "A1", "Shirt", "1", "1") + add("1", "a1", "Pants", "1", "1") + lines("0")
	h := run(t, script, memory.Options{RejectDuplicates: true, DuplicateMatch: entity.MatchFold}, usecase.DefaultPolicy())

	assert.Contains(t, h.out.String(), "An item with this ID already exists!")
	assert.Equal(t, 1, h.repo.Len())
}

func TestItemHandler_UpdateQuantity(t *testing.T) {
	script := add("2", "TV01", "Television", "3", "399.90") +
		lines("2", "tv01", "3", "1", "-3", "8", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Contains(t, out, "Invalid choice! Please enter 1 or 2.")
	assert.Contains(t, out, "Invalid input. Please enter a positive integer.")
	assert.Contains(t, out, "Quantity of Item Television is updated from 3 to 8")

	item, err := h.repo.FindByID(context.Background(), "TV01", entity.MatchExact)
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)
}

func TestItemHandler_UpdatePrice(t *testing.T) {
	script := add("2", "TV01", "Television", "3", "399.90") +
		lines("2", "TV01", "2", "0", "349.5", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	assert.Contains(t, h.out.String(), "Price of Item Television is updated from 399.90 to 349.50")
}

func TestItemHandler_UpdateExactMatchPolicy(t *testing.T) {
	policy := usecase.DefaultPolicy()
	policy.UpdateMatch = entity.MatchExact

	script := add("2", "TV01", "Television", "3", "399.90") + lines("2", "tv01", "0")
	h := run(t, script, memory.Options{}, policy)

	assert.Contains(t, h.out.String(), "Item not found!")
}

func TestItemHandler_Remove(t *testing.T) {
	script := add("1", "A1", "Shirt", "1", "1") + add("1", "A2", "Pants", "2", "1") +
		lines("3", "nope", "3", "A1", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Contains(t, out, "Item not found!")
	assert.Contains(t, out, "Item Shirt has been removed from the inventory.")
	assert.Equal(t, 1, h.repo.Len())
}

func TestItemHandler_Search(t *testing.T) {
	script := add("3", "G7", "Chess Set", "4", "25") + lines("6", "g7", "6", "G7", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Contains(t, out, "Item not found!")
	assert.Contains(t, out, "Chess Set")
	assert.Contains(t, out, "Entertainment")
}

func TestItemHandler_ListByCategory(t *testing.T) {
	script := add("1", "A1", "Shirt", "1", "1") + add("2", "E1", "Radio", "1", "1") +
		lines("4", "9", "2", "4", "3", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Contains(t, out, "Invalid choice! Please enter 1, 2, or 3.")
	assert.Contains(t, out, "Radio")
	assert.Contains(t, out, "No items found in this category.")
}

func TestItemHandler_Sort(t *testing.T) {
	script := add("1", "AAA", "first", "5", "2") +
		add("1", "BBB", "second", "1", "3") +
		add("1", "CCC", "third", "3", "1") +
		lines("7", "1", "1", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	table := out[strings.LastIndex(out, "Enter choice: "):]
	b, c, a := strings.Index(table, "BBB"), strings.Index(table, "CCC"), strings.Index(table, "AAA")
	require.True(t, b >= 0 && c >= 0 && a >= 0)
	assert.Less(t, b, c)
	assert.Less(t, c, a)
}

func TestItemHandler_LowStock(t *testing.T) {
	script := add("1", "A1", "Socks", "1", "1") +
		add("1", "A2", "Hats", "6", "1") +
		add("1", "A3", "Gloves", "5", "1") +
		add("1", "A4", "Coats", "10", "1") +
		lines("8", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	report := out[strings.Index(out, "Items with quantity at or below 5"):]
	assert.Contains(t, report, "Socks")
	assert.Contains(t, report, "Gloves")
	assert.NotContains(t, report, "Hats")
	assert.NotContains(t, report, "Coats")
}

func TestItemHandler_LowStockNone(t *testing.T) {
	h := run(t, add("1", "A1", "Coats", "10", "1")+lines("8", "0"), memory.Options{}, usecase.DefaultPolicy())

	assert.Contains(t, h.out.String(), "No low stock items found.")
}

func TestItemHandler_Summary(t *testing.T) {
	script := add("1", "A1", "Shirt", "1", "1") + add("2", "E1", "Radio", "1", "1") + lines("9", "0")
	h := run(t, script, memory.Options{}, usecase.DefaultPolicy())

	out := h.out.String()
	assert.Contains(t, out, "Clothing")
	assert.Contains(t, out, "Total")
}

func TestItemHandler_CanceledContext(t *testing.T) {
	repo := memory.NewItemRepository(memory.Options{Capacity: 10})
	uc := usecase.NewItemUsecase(repo, usecase.DefaultPolicy(), nil)
	handler := NewItemHandler(uc, strings.NewReader("5\n"), &bytes.Buffer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, handler.Run(ctx), context.Canceled)
}

func TestTable_View(t *testing.T) {
	tbl := newTable("ID", "Name")
	tbl.addRow("A1", "Wide Screen Monitor")

	view := tbl.view(NewStyles(&bytes.Buffer{}))
	assert.Contains(t, view, "Wide Screen Monitor")
	assert.Contains(t, view, "---")
	assert.Equal(t, 3, strings.Count(view, "\n"))
}
