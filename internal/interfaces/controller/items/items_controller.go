package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/internal/domain/entity"
	domainErrors "stockroom/internal/domain/errors"
	"stockroom/internal/usecase"
)

const menu = `
==================== MENU ====================
[1] - Add Item
[2] - Update Item
[3] - Remove Item
[4] - Display Items by Category
[5] - Display All Items
[6] - Search Item
[7] - Sort Items
[8] - Display Low Stock Items
[9] - Category Summary
[0] - Exit (q also works; 9 no longer exits)
==============================================
`

// maxLineLength bounds a single answer. Longer lines are discarded and the
// question is asked again.
const maxLineLength = 4096

var errLineTooLong = fmt.Errorf("%w: input longer than %d bytes", domainErrors.ErrInvalidInput, maxLineLength)

const categoryPrompt = "\nSelect category:\n[1] Clothing\n[2] Electronics\n[3] Entertainment\nEnter choice: "

// ItemHandler drives the interactive menu. Domain errors are reported to the
// user and never end the loop; only end of input or a canceled context does.
type ItemHandler struct {
	itemUsecase usecase.ItemUsecase
	in          *bufio.Reader
	out         io.Writer
	styles      Styles
	logger      *zap.Logger
}

func NewItemHandler(itemUsecase usecase.ItemUsecase, in io.Reader, out io.Writer, logger *zap.Logger) *ItemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemHandler{
		itemUsecase: itemUsecase,
		in:          bufio.NewReaderSize(in, maxLineLength),
		out:         out,
		styles:      NewStyles(out),
		logger:      logger.Named("controller"),
	}
}

// Run shows the menu until the user exits or input ends.
func (h *ItemHandler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		h.print(h.styles.Title.Render(menu))
		choice, err := h.prompt("Enter your choice: ")
		if errors.Is(err, errLineTooLong) {
			choice = ""
		} else if err != nil {
			return h.finish(err)
		}

		switch choice {
		case "0", "q", "quit", "exit":
			h.println("\nExiting program...")
			return nil
		case "1":
			err = h.AddItem(ctx)
		case "2", "3", "4", "5", "6", "7", "8":
			err = h.dispatch(ctx, choice)
		case "9":
			err = h.GetSummary(ctx)
		default:
			h.println(h.styles.Error.Render("\nInvalid input. Please enter a valid option."))
			continue
		}
		if err != nil {
			return h.finish(err)
		}
	}
}

// dispatch runs the options that need at least one item.
func (h *ItemHandler) dispatch(ctx context.Context, choice string) error {
	empty, err := h.itemUsecase.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if empty {
		h.println(h.styles.Warning.Render("No items added yet!"))
		return nil
	}

	switch choice {
	case "2":
		return h.UpdateItem(ctx)
	case "3":
		return h.RemoveItem(ctx)
	case "4":
		return h.ListByCategory(ctx)
	case "5":
		return h.ListItems(ctx)
	case "6":
		return h.SearchItem(ctx)
	case "7":
		return h.SortItems(ctx)
	default:
		return h.LowStockReport(ctx)
	}
}

func (h *ItemHandler) finish(err error) error {
	if errors.Is(err, io.EOF) {
		h.println("\nExiting program...")
		return nil
	}
	return err
}

func (h *ItemHandler) AddItem(ctx context.Context) error {
	category, err := promptUntil(h, categoryPrompt, "Invalid choice! Please enter 1, 2, or 3.", entity.ParseCategory)
	if err != nil {
		return err
	}

	id, err := promptUntil(h, "Enter item ID: ", "Invalid ID. Try again", func(s string) (string, error) {
		if err := h.itemUsecase.ValidateID(s); err != nil {
			return "", err
		}
		return s, nil
	})
	if err != nil {
		return err
	}

	name, err := promptUntil(h, "Enter item name: ", "Name cannot be empty.", parseName)
	if err != nil {
		return err
	}

	quantity, err := promptUntil(h, "Enter quantity: ", "Invalid input. Please enter a positive integer.", parsePositiveInt)
	if err != nil {
		return err
	}

	price, err := promptUntil(h, "Enter price: ", "Invalid input. Please enter a positive number.", parsePositiveDecimal)
	if err != nil {
		return err
	}

	_, err = h.itemUsecase.AddItem(ctx, usecase.CreateItemInput{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Price:    price,
		Category: category,
	})
	if err != nil {
		return h.report(err)
	}

	h.println(h.styles.Success.Render("Item added successfully!"))
	return nil
}

// UpdateItem changes either the quantity or the price of one item.
func (h *ItemHandler) UpdateItem(ctx context.Context) error {
	id, err := h.prompt("\nEnter item ID to update: ")
	if err != nil {
		return h.report(err)
	}

	item, err := h.itemUsecase.FindUpdatable(ctx, id)
	if err != nil {
		return h.report(err)
	}

	choice, err := promptUntil(h, "\n[1] Update Quantity\n[2] Update Price\nEnter choice: ", "Invalid choice! Please enter 1 or 2.", parseOneOrTwo)
	if err != nil {
		return err
	}

	if choice == 1 {
		quantity, err := promptUntil(h, "Enter new quantity: ", "Invalid input. Please enter a positive integer.", parsePositiveInt)
		if err != nil {
			return err
		}
		res, err := h.itemUsecase.UpdateQuantity(ctx, item.ID, quantity)
		if err != nil {
			return h.report(err)
		}
		h.println(h.styles.Success.Render(fmt.Sprintf("Quantity of Item %s is updated from %d to %d",
			res.After.Name, res.Before.Quantity, res.After.Quantity)))
		return nil
	}

	price, err := promptUntil(h, "Enter new price: ", "Invalid input. Please enter a positive number.", parsePositiveDecimal)
	if err != nil {
		return err
	}
	res, err := h.itemUsecase.UpdatePrice(ctx, item.ID, price)
	if err != nil {
		return h.report(err)
	}
	h.println(h.styles.Success.Render(fmt.Sprintf("Price of Item %s is updated from %s to %s",
		res.After.Name, res.Before.Price.StringFixed(2), res.After.Price.StringFixed(2))))
	return nil
}

func (h *ItemHandler) RemoveItem(ctx context.Context) error {
	id, err := h.prompt("Enter item ID to remove: ")
	if err != nil {
		return h.report(err)
	}

	removed, err := h.itemUsecase.RemoveItem(ctx, id)
	if err != nil {
		return h.report(err)
	}

	h.println(h.styles.Success.Render(fmt.Sprintf("Item %s has been removed from the inventory.", removed.Name)))
	return nil
}

func (h *ItemHandler) ListByCategory(ctx context.Context) error {
	category, err := promptUntil(h, categoryPrompt, "Invalid choice! Please enter 1, 2, or 3.", entity.ParseCategory)
	if err != nil {
		return err
	}

	items, err := h.itemUsecase.ListByCategory(ctx, category)
	if err != nil {
		return h.report(err)
	}

	h.renderItems(itemTable(items, false), "No items found in this category.")
	return nil
}

func (h *ItemHandler) ListItems(ctx context.Context) error {
	items, err := h.itemUsecase.ListItems(ctx)
	if err != nil {
		return h.report(err)
	}

	h.renderItems(itemTable(items, true), "No items in the inventory.")
	return nil
}

func (h *ItemHandler) SearchItem(ctx context.Context) error {
	id, err := h.prompt("\nEnter item ID to search: ")
	if err != nil {
		return h.report(err)
	}

	item, err := h.itemUsecase.GetItem(ctx, id)
	if err != nil {
		return h.report(err)
	}

	t := newTable("ID", "Name", "Quantity", "Price", "Category")
	t.addRow(item.ID, item.Name, strconv.Itoa(item.Quantity), item.Price.StringFixed(2), item.Category.String())
	h.renderItems(t, "")
	return nil
}

func (h *ItemHandler) SortItems(ctx context.Context) error {
	field, err := promptUntil(h, "\n[1] Sort by Quantity\n[2] Sort by Price\nEnter choice: ", "Invalid choice. Please enter 1 or 2.", entity.ParseSortField)
	if err != nil {
		return err
	}
	order, err := promptUntil(h, "\n[1] Ascending\n[2] Descending\nEnter choice: ", "Invalid choice. Please enter 1 or 2.", entity.ParseSortOrder)
	if err != nil {
		return err
	}

	items, err := h.itemUsecase.SortItems(ctx, field, order)
	if err != nil {
		return h.report(err)
	}

	h.renderItems(itemTable(items, true), "No items in the inventory.")
	return nil
}

func (h *ItemHandler) LowStockReport(ctx context.Context) error {
	items, err := h.itemUsecase.LowStockItems(ctx)
	if err != nil {
		return h.report(err)
	}

	h.println(h.styles.Bold.Render(fmt.Sprintf("\nItems with quantity at or below %d", h.itemUsecase.LowStockThreshold())))
	h.renderItems(itemTable(items, true), "No low stock items found.")
	return nil
}

func (h *ItemHandler) GetSummary(ctx context.Context) error {
	summary, err := h.itemUsecase.GetCategorySummary(ctx)
	if err != nil {
		return h.report(err)
	}

	t := newTable("Category", "Items")
	for _, c := range entity.GetValidCategories() {
		t.addRow(c.String(), strconv.Itoa(summary.Categories[c]))
	}
	t.addRow("Total", strconv.Itoa(summary.Total))
	h.renderItems(t, "")
	return nil
}

// report prints a domain error and swallows it. Anything else is returned.
func (h *ItemHandler) report(err error) error {
	var msg string
	switch {
	case errors.Is(err, io.EOF):
		return err
	case domainErrors.IsNotFoundError(err):
		msg = "Item not found!"
	case domainErrors.IsCategoryError(err):
		msg = "Category does not exist!"
	case domainErrors.IsCapacityError(err):
		msg = "Inventory is full!"
	case errors.Is(err, domainErrors.ErrDuplicateID):
		msg = "An item with this ID already exists!"
	case domainErrors.IsValidationError(err):
		msg = "Invalid input: " + strings.TrimPrefix(err.Error(), domainErrors.ErrInvalidInput.Error()+": ")
	default:
		h.logger.Error("operation failed", zap.Error(err))
		return err
	}
	h.println(h.styles.Error.Render(msg))
	return nil
}

func (h *ItemHandler) renderItems(t *table, emptyMsg string) {
	h.println("")
	if t.len() == 0 {
		h.println(h.styles.Warning.Render(emptyMsg))
		return
	}
	h.print(t.view(h.styles))
}

func (h *ItemHandler) prompt(label string) (string, error) {
	h.print(label)
	line, err := h.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readLine returns the next line without its terminator. A final line with no
// newline is still returned; io.EOF follows on the next call. Lines longer
// than maxLineLength are consumed in full and reported as errLineTooLong.
func (h *ItemHandler) readLine() (string, error) {
	var sb strings.Builder
	tooLong := false
	read := false
	for {
		chunk, err := h.in.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !tooLong {
			if sb.Len()+len(chunk) > maxLineLength+1 {
				tooLong = true
				sb.Reset()
			} else {
				sb.Write(chunk)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !read {
				return "", io.EOF
			}
		case err != nil:
			return "", err
		}

		if tooLong {
			h.logger.Debug("input line discarded", zap.Int("limit", maxLineLength))
			return "", errLineTooLong
		}
		return strings.TrimSuffix(sb.String(), "\n"), nil
	}
}

func (h *ItemHandler) print(s string) {
	fmt.Fprint(h.out, s)
}

func (h *ItemHandler) println(s string) {
	fmt.Fprintln(h.out, s)
}

// promptUntil asks label until parse accepts the answer.
func promptUntil[T any](h *ItemHandler, label, retry string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := h.prompt(label)
		if errors.Is(err, errLineTooLong) {
			h.println(h.styles.Error.Render(retry))
			continue
		}
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		h.logger.Debug("input rejected", zap.String("input", line), zap.Error(err))
		h.println(h.styles.Error.Render(retry))
	}
}

func parseName(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: name is required", domainErrors.ErrInvalidInput)
	}
	return s, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}
	if err := entity.ValidateQuantity(n); err != nil {
		return 0, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}
	return n, nil
}

func parsePositiveDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}
	if err := entity.ValidatePrice(d); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}
	return d, nil
}

func parseOneOrTwo(s string) (int, error) {
	switch s {
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: expected 1 or 2", domainErrors.ErrInvalidInput)
	}
}
