package tui

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/idilsaglam/shoplist/internal/model"
)

// row adapts one line of the flattened list (a category header or an item)
// to bubbles/list.Item.
type row struct {
	header     bool
	categoryID string
	itemID     string
	text       string // category or item name
	quantity   string // items only, pre-formatted
	count      int    // headers only
}

func (r row) Title() string       { return r.text }
func (r row) Description() string { return "" }
func (r row) FilterValue() string { return r.text }

// Custom delegate to control how rows render (single line)
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, _ := item.(row)
	var line string
	if r.header {
		line = categoryStyle.Render("▸ "+r.text) + " " + mutedStyle.Render(fmt.Sprintf("(%d)", r.count))
	} else {
		line = "  " + qtyStyle.Render(r.quantity+"×") + " " + r.text
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// The per-row edit states live here, never in the persisted list.
type mode int

const (
	browsing mode = iota
	addingName
	addingQuantity
	addingCategory
	editingName
	editingQuantity
	renamingCategory
)

type session struct {
	rows    list.Model
	data    model.List
	changed bool

	mode    mode
	ti      textinput.Model // shared text input (add, edit, rename)
	formErr string
	status  string

	// staged add form
	pendingName     string
	pendingQuantity float64

	// target of an in-flight edit
	targetCategoryID string
	targetItemID     string

	width, height int
}

// Run starts the interactive session over the given list and hands the final
// state to save when anything changed.
func Run(data model.List, save func(model.List) error) error {
	l := list.New(rowsOf(data), rowDelegate{}, 0, 0)
	l.Title = titleLine(data)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("row", "rows")

	extra := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "name")),
		key.NewBinding(key.WithKeys("#"), key.WithHelp("#", "qty")),
		key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "bump qty")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("J", "K"), key.WithHelp("J/K", "move item")),
		key.NewBinding(key.WithKeys("]", "["), key.WithHelp("]/[", "move category")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename category")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra[:4] }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }

	s := session{
		rows: l,
		data: data,
	}
	s.ti = textinput.New()
	s.ti.Prompt = "> "
	s.ti.CharLimit = 200

	p := tea.NewProgram(s, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	fs, ok := finalModel.(session)
	if !ok {
		return nil
	}
	if fs.changed {
		return save(fs.data)
	}
	return nil
}

func (s session) Init() tea.Cmd { return nil }

func (s session) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		s.width, s.height = ws.Width, ws.Height
		s.resize()
		return s, nil
	}

	if s.mode != browsing {
		return s.updateForm(msg)
	}

	// While the built-in filter is typing, every key belongs to it.
	if s.rows.FilterState() == list.Filtering {
		var cmd tea.Cmd
		s.rows, cmd = s.rows.Update(msg)
		return s, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		s.status = ""
		switch msg.String() {
		case "q", "esc":
			return s, tea.Quit

		case "a":
			s.mode = addingName
			s.formErr = ""
			s.startInput("", "Item name...")
			return s, nil

		case "e":
			if r, ok := s.selectedItemRow(); ok {
				s.mode = editingName
				s.targetItemID = r.itemID
				s.startInput(r.text, "Item name...")
			}
			return s, nil

		case "#":
			if r, ok := s.selectedItemRow(); ok {
				s.mode = editingQuantity
				s.targetItemID = r.itemID
				s.startInput(r.quantity, "Quantity...")
			}
			return s, nil

		case "+", "-":
			if r, ok := s.selectedItemRow(); ok {
				delta := 1.0
				if msg.String() == "-" {
					delta = -1
				}
				q := s.data.Items[r.itemID].Quantity + delta
				s.apply(s.data.UpdateItem(r.itemID, model.ItemUpdate{Quantity: &q}))
				s.refresh(r.itemID, "")
			}
			return s, nil

		case "r":
			if r, ok := s.selected(); ok && r.header {
				s.mode = renamingCategory
				s.targetCategoryID = r.categoryID
				s.startInput(r.text, "Category name...")
			}
			return s, nil

		case "d":
			if r, ok := s.selected(); ok {
				if r.header {
					s.apply(s.data.DeleteCategory(r.categoryID))
				} else {
					s.apply(s.data.DeleteItem(r.categoryID, r.itemID))
				}
				s.refresh("", "")
			}
			return s, nil

		case "J":
			s.moveItem(+1)
			return s, nil
		case "K":
			s.moveItem(-1)
			return s, nil

		case "]":
			s.moveCategory(+1)
			return s, nil
		case "[":
			s.moveCategory(-1)
			return s, nil

		case "c":
			if err := clipboard.WriteAll(s.data.ExportText()); err != nil {
				s.status = errorStyle.Render("clipboard: " + err.Error())
			} else {
				s.status = successStyle.Render("copied to clipboard")
			}
			return s, nil

		case "n":
			s.data = s.data.StartNewList()
			s.changed = true
			s.refresh("", "")
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.rows, cmd = s.rows.Update(msg)
	return s, cmd
}

// updateForm drives the text input while an add/edit/rename form is open.
func (s session) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			s.closeInput()
			return s, nil
		case "tab":
			// accept the top completion where one applies
			if hints := s.completions(); len(hints) > 0 {
				s.ti.SetValue(hints[0])
				s.ti.CursorEnd()
			}
			return s, nil
		case "enter":
			return s.submitForm()
		}
	}
	var cmd tea.Cmd
	s.ti, cmd = s.ti.Update(msg)
	return s, cmd
}

func (s session) submitForm() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(s.ti.Value())

	switch s.mode {
	case addingName:
		if value == "" {
			s.formErr = "Name cannot be empty"
			return s, nil
		}
		s.pendingName = value
		s.mode = addingQuantity
		s.startInput("1", "Quantity...")
		return s, nil

	case addingQuantity:
		q, err := strconv.ParseFloat(value, 64)
		if err != nil {
			s.formErr = "Not a number: " + value
			return s, nil
		}
		s.pendingQuantity = q
		s.mode = addingCategory
		// default to the category under the cursor
		prefill := ""
		if r, ok := s.selected(); ok {
			prefill = s.data.Categories[r.categoryID].Name
		}
		s.startInput(prefill, "Category name...")
		return s, nil

	case addingCategory:
		if value == "" {
			s.formErr = "Category cannot be empty"
			return s, nil
		}
		s.data = s.data.CreateItem(s.pendingName, s.pendingQuantity, value)
		s.changed = true
		name := s.pendingName
		s.closeInput()
		s.refresh("", "")
		s.focusItemNamed(name)
		return s, nil

	case editingName:
		if value == "" {
			s.formErr = "Name cannot be empty"
			return s, nil
		}
		id := s.targetItemID
		s.apply(s.data.UpdateItem(id, model.ItemUpdate{Name: &value}))
		s.closeInput()
		s.refresh(id, "")
		return s, nil

	case editingQuantity:
		q, err := strconv.ParseFloat(value, 64)
		if err != nil {
			s.formErr = "Not a number: " + value
			return s, nil
		}
		id := s.targetItemID
		s.apply(s.data.UpdateItem(id, model.ItemUpdate{Quantity: &q}))
		s.closeInput()
		s.refresh(id, "")
		return s, nil

	case renamingCategory:
		if value == "" {
			s.formErr = "Name cannot be empty"
			return s, nil
		}
		id := s.targetCategoryID
		s.apply(s.data.RenameCategory(id, value))
		s.closeInput()
		s.refresh("", id)
		return s, nil
	}
	return s, nil
}

func (s session) View() string {
	content := s.rows.View()
	if s.mode != browsing {
		title := s.formTitle()
		if s.formErr != "" {
			title += " — " + errorStyle.Render(s.formErr)
		}
		inputLine := title + "\n" + s.ti.View()
		if hints := s.completions(); len(hints) > 0 {
			inputLine += "\n" + mutedStyle.Render("tab: "+strings.Join(hints, "  "))
		}
		content = content + "\n" + inputBarStyle.Render(inputLine)
	}
	if s.status != "" {
		content = content + "\n" + s.status
	}
	return panelStyle.Render(content)
}

// ---------------------------------------------------
// helpers
// ---------------------------------------------------

func (s *session) apply(l model.List, err error) {
	if err != nil {
		// Stale selection against the current list; drop the intent and
		// let the refresh resync the rows.
		s.status = errorStyle.Render(err.Error())
		return
	}
	s.data = l
	s.changed = true
}

func (s *session) startInput(value, placeholder string) {
	s.formErr = ""
	s.ti.SetValue(value)
	s.ti.Placeholder = placeholder
	s.ti.CursorEnd()
	s.ti.Focus()
	s.resize()
}

func (s *session) closeInput() {
	s.mode = browsing
	s.formErr = ""
	s.ti.SetValue("")
	s.ti.Blur()
	s.resize()
}

func (s *session) selected() (row, bool) {
	r, ok := s.rows.SelectedItem().(row)
	return r, ok
}

func (s *session) selectedItemRow() (row, bool) {
	r, ok := s.selected()
	if !ok || r.header {
		return row{}, false
	}
	return r, true
}

// refresh rebuilds the flattened rows from the list and tries to keep the
// cursor on the given item (or category header).
func (s *session) refresh(focusItemID, focusCategoryID string) {
	items := rowsOf(s.data)
	s.rows.SetItems(items)
	s.rows.Title = titleLine(s.data)

	idx := s.rows.Index()
	for i, it := range items {
		r := it.(row)
		if focusItemID != "" && r.itemID == focusItemID {
			idx = i
			break
		}
		if focusItemID == "" && focusCategoryID != "" && r.header && r.categoryID == focusCategoryID {
			idx = i
			break
		}
	}
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	s.rows.Select(idx)
}

func (s *session) focusItemNamed(name string) {
	for i, it := range s.rows.Items() {
		if r, ok := it.(row); ok && !r.header && r.text == name {
			s.rows.Select(i)
			return
		}
	}
}

// moveItem shifts the selected item by one position, crossing into the
// neighboring category at the edges.
func (s *session) moveItem(dir int) {
	r, ok := s.selectedItemRow()
	if !ok {
		return
	}
	c := s.data.Categories[r.categoryID]
	idx := slices.Index(c.ItemIDs, r.itemID)
	if idx < 0 {
		return
	}

	within := idx + dir
	if within >= 0 && within < len(c.ItemIDs) {
		s.apply(s.data.ReorderItem(r.categoryID, idx, r.categoryID, within))
		s.refresh(r.itemID, "")
		return
	}

	// crossing a category boundary
	pos := slices.Index(s.data.CategoryOrder, r.categoryID)
	neighbor := pos + dir
	if neighbor < 0 || neighbor >= len(s.data.CategoryOrder) {
		return
	}
	destID := s.data.CategoryOrder[neighbor]
	destIdx := 0
	if dir < 0 {
		destIdx = len(s.data.Categories[destID].ItemIDs)
	}
	s.apply(s.data.ReorderItem(r.categoryID, idx, destID, destIdx))
	s.refresh(r.itemID, "")
}

func (s *session) moveCategory(dir int) {
	r, ok := s.selected()
	if !ok || !r.header {
		return
	}
	pos := slices.Index(s.data.CategoryOrder, r.categoryID)
	to := pos + dir
	if pos < 0 || to < 0 || to >= len(s.data.CategoryOrder) {
		return
	}
	s.apply(s.data.ReorderCategory(pos, to))
	s.refresh("", r.categoryID)
}

// completions ranks existing names against the form input for the two form
// stages that take a name.
func (s *session) completions() []string {
	var candidates []string
	switch s.mode {
	case addingName:
		candidates = s.data.NameCompletions()
	case addingCategory:
		candidates = s.data.CategoryCompletions()
	default:
		return nil
	}
	input := strings.TrimSpace(s.ti.Value())
	if input == "" {
		return nil
	}
	matches := fuzzy.Find(input, candidates)
	out := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func (s *session) formTitle() string {
	switch s.mode {
	case addingName:
		return "Add item — name"
	case addingQuantity:
		return fmt.Sprintf("Add %q — quantity", s.pendingName)
	case addingCategory:
		return fmt.Sprintf("Add %q — category", s.pendingName)
	case editingName:
		return "Edit name"
	case editingQuantity:
		return "Edit quantity"
	case renamingCategory:
		return "Rename category"
	}
	return ""
}

func (s *session) resize() {
	if s.width == 0 {
		return
	}
	listHeight := s.height - 4
	if s.mode != browsing {
		listHeight = s.height - 8
	}
	if listHeight < 3 {
		listHeight = 3
	}
	s.rows.SetSize(s.width-4, listHeight)
}

func rowsOf(l model.List) []list.Item {
	out := make([]list.Item, 0, len(l.Items)+len(l.Categories))
	for c, items := range l.OrderedCategories() {
		out = append(out, row{header: true, categoryID: c.ID, text: c.Name, count: len(items)})
		for _, it := range items {
			out = append(out, row{
				categoryID: c.ID,
				itemID:     it.ID,
				text:       it.Name,
				quantity:   model.FormatQuantity(it.Quantity),
			})
		}
	}
	return out
}

func titleLine(l model.List) string {
	return fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Shopping list"),
		accentStyle.Render("▸"), len(l.Categories),
		qtyStyle.Render("•"), l.Len(),
	)
}
