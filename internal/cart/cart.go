package cart

import "storefront-service/internal/models"

// State is the full cart state for one session.
type State struct {
	Lines  []models.CartLine `json:"lines"`
	IsOpen bool              `json:"isOpen"`
}

// Initial returns the empty cart state.
func Initial() State {
	return State{}
}

// Command names, also used as metric labels.
const (
	CommandAddItem        = "add_item"
	CommandRemoveItem     = "remove_item"
	CommandUpdateQuantity = "update_quantity"
	CommandToggleCart     = "toggle_cart"
	CommandClearCart      = "clear_cart"
)

// Command is a tagged cart transition. Construct commands with the helper
// functions below; Apply dispatches on the Name field.
type Command struct {
	Name     string
	ID       string
	Kind     string
	Quantity int
	Product  *models.Product
	Bundle   *models.Bundle
}

// AddProduct builds an AddItem command carrying a product snapshot.
func AddProduct(p models.Product) Command {
	return Command{Name: CommandAddItem, ID: p.ID, Kind: models.KindProduct, Product: &p}
}

// AddBundle builds an AddItem command carrying a bundle snapshot.
func AddBundle(b models.Bundle) Command {
	return Command{Name: CommandAddItem, ID: b.ID, Kind: models.KindBundle, Bundle: &b}
}

// RemoveItem builds a command deleting the line with the given id.
func RemoveItem(id string) Command {
	return Command{Name: CommandRemoveItem, ID: id}
}

// UpdateQuantity builds a command setting a line's quantity. A quantity of
// zero or less removes the line.
func UpdateQuantity(id string, quantity int) Command {
	return Command{Name: CommandUpdateQuantity, ID: id, Quantity: quantity}
}

// ToggleCart builds a command flipping the drawer open state.
func ToggleCart() Command {
	return Command{Name: CommandToggleCart}
}

// ClearCart builds a command emptying the lines.
func ClearCart() Command {
	return Command{Name: CommandClearCart}
}

// Apply computes the next state from the current state and a command. The
// input state is never mutated; commands against absent line ids are
// no-ops, and an unknown command name returns the state unchanged.
func Apply(s State, cmd Command) State {
	switch cmd.Name {
	case CommandAddItem:
		return applyAdd(s, cmd)

	case CommandRemoveItem:
		return State{Lines: removeLine(s.Lines, cmd.ID), IsOpen: s.IsOpen}

	case CommandUpdateQuantity:
		if cmd.Quantity <= 0 {
			return State{Lines: removeLine(s.Lines, cmd.ID), IsOpen: s.IsOpen}
		}
		lines := copyLines(s.Lines)
		for i := range lines {
			if lines[i].ID == cmd.ID {
				lines[i].Quantity = cmd.Quantity
			}
		}
		return State{Lines: lines, IsOpen: s.IsOpen}

	case CommandToggleCart:
		return State{Lines: copyLines(s.Lines), IsOpen: !s.IsOpen}

	case CommandClearCart:
		return State{IsOpen: s.IsOpen}

	default:
		return s
	}
}

func applyAdd(s State, cmd Command) State {
	lines := copyLines(s.Lines)
	for i := range lines {
		if lines[i].ID == cmd.ID {
			// Existing line: bump quantity, keep position and snapshot.
			lines[i].Quantity++
			return State{Lines: lines, IsOpen: s.IsOpen}
		}
	}
	lines = append(lines, models.CartLine{
		ID:       cmd.ID,
		Kind:     cmd.Kind,
		Quantity: 1,
		Product:  cmd.Product,
		Bundle:   cmd.Bundle,
	})
	return State{Lines: lines, IsOpen: s.IsOpen}
}

// Total sums snapshot price times quantity across all lines.
func Total(s State) int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.UnitPrice() * int64(l.Quantity)
	}
	return total
}

// Count sums quantities across all lines (units, not distinct lines).
func Count(s State) int {
	var count int
	for _, l := range s.Lines {
		count += l.Quantity
	}
	return count
}

// Savings sums the compare-at discount times quantity for lines whose
// snapshot carries a compare-at price.
func Savings(s State) int64 {
	var savings int64
	for _, l := range s.Lines {
		savings += l.UnitSavings() * int64(l.Quantity)
	}
	return savings
}

func copyLines(lines []models.CartLine) []models.CartLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}

func removeLine(lines []models.CartLine, id string) []models.CartLine {
	var out []models.CartLine
	for _, l := range lines {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}
