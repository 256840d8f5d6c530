package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
	"github.com/idilsaglam/shoplist/internal/tui"
	"github.com/idilsaglam/shoplist/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Plain bool // ls without the frame, for piping
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt)

	case "ui":
		return doInteractive()

	case "add":
		if len(a) < 2 {
			ui.Fail("usage: shoplist add <quantity> <name...> @<category...>")
			return 2
		}
		qty, err := strconv.ParseFloat(a[0], 64)
		if err != nil {
			ui.Fail("add: not a number: " + a[0])
			return 2
		}
		name, category, ok := splitNameCategory(a[1:])
		if !ok {
			ui.Fail("usage: shoplist add <quantity> <name...> @<category...>")
			return 2
		}
		return doAdd(name, qty, category)

	case "qty":
		if len(a) != 3 {
			ui.Fail("usage: shoplist qty <category> <item> <quantity>")
			return 2
		}
		ci, ii, ok := twoIndexes(a[0], a[1])
		if !ok {
			return 2
		}
		q, err := strconv.ParseFloat(a[2], 64)
		if err != nil {
			ui.Fail("qty: not a number: " + a[2])
			return 2
		}
		return doUpdate(ci, ii, model.ItemUpdate{Quantity: &q})

	case "name":
		if len(a) < 3 {
			ui.Fail("usage: shoplist name <category> <item> <new name...>")
			return 2
		}
		ci, ii, ok := twoIndexes(a[0], a[1])
		if !ok {
			return 2
		}
		name := strings.TrimSpace(strings.Join(a[2:], " "))
		if name == "" {
			ui.Fail("name: empty name")
			return 2
		}
		return doUpdate(ci, ii, model.ItemUpdate{Name: &name})

	case "rename":
		if len(a) < 2 {
			ui.Fail("usage: shoplist rename <category> <new name...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rename: not a number: " + a[0])
			return 2
		}
		name := strings.TrimSpace(strings.Join(a[1:], " "))
		if name == "" {
			ui.Fail("rename: empty name")
			return 2
		}
		return doRename(n, name)

	case "rm":
		if len(a) != 2 {
			ui.Fail("usage: shoplist rm <category> <item>")
			return 2
		}
		ci, ii, ok := twoIndexes(a[0], a[1])
		if !ok {
			return 2
		}
		return doRemoveItem(ci, ii)

	case "rmcat":
		if len(a) != 1 {
			ui.Fail("usage: shoplist rmcat <category>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rmcat: not a number: " + a[0])
			return 2
		}
		return doRemoveCategory(n)

	case "mv":
		switch len(a) {
		case 3:
			return doMoveItem(a[0], a[1], a[0], a[2])
		case 4:
			return doMoveItem(a[0], a[1], a[2], a[3])
		default:
			ui.Fail("usage: shoplist mv <category> <from> <to>  |  mv <srcCategory> <from> <dstCategory> <to>")
			return 2
		}

	case "mvcat":
		if len(a) != 2 {
			ui.Fail("usage: shoplist mvcat <from> <to>")
			return 2
		}
		return doMoveCategory(a[0], a[1])

	case "export":
		copyToClipboard := len(a) == 1 && a[0] == "-copy"
		if len(a) > 1 || (len(a) == 1 && !copyToClipboard) {
			ui.Fail("usage: shoplist export [-copy]")
			return 2
		}
		return doExport(copyToClipboard)

	case "new":
		return doNew()
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`shoplist - build your shopping list

Usage:
  shoplist <subcommand> [args]

Subcommands:
  ls                                    Show the list grouped by category
  ui                                    Interactive session
  add <qty> <name...> @<category...>    Add an item (repeats merge by name)
  qty <cat> <item> <quantity>           Change an item's quantity
  name <cat> <item> <new name...>       Rename an item
  rename <cat> <new name...>            Rename a category
  rm <cat> <item>                       Remove an item
  rmcat <cat>                           Remove a category and its items
  mv <cat> <from> <to>                  Move an item within its category
  mv <srcCat> <from> <dstCat> <to>      Move an item to another category
  mvcat <from> <to>                     Move a category
  export [-copy]                        Print the list as text (-copy: clipboard)
  new                                   Start a new, empty list

Indexes are 1-based, as shown by ls.

Examples:
  shoplist add 2 "Olive oil" @Pantry
  shoplist mv 1 3 1
  shoplist export -copy
`)
}

// splitNameCategory takes the args after the quantity and cuts them at the
// first "@"-prefixed token into an item name and a category name.
func splitNameCategory(args []string) (name, category string, ok bool) {
	for i, arg := range args {
		if strings.HasPrefix(arg, "@") {
			name = strings.TrimSpace(strings.Join(args[:i], " "))
			rest := append([]string{strings.TrimPrefix(arg, "@")}, args[i+1:]...)
			category = strings.TrimSpace(strings.Join(rest, " "))
			if name == "" || category == "" {
				return "", "", false
			}
			return name, category, true
		}
	}
	return "", "", false
}

func twoIndexes(catArg, itemArg string) (catIndex, itemIndex int, ok bool) {
	ci, err := strconv.Atoi(catArg)
	if err != nil {
		ui.Fail("not a number: " + catArg)
		return 0, 0, false
	}
	ii, err := strconv.Atoi(itemArg)
	if err != nil {
		ui.Fail("not a number: " + itemArg)
		return 0, 0, false
	}
	return ci, ii, true
}

// resolve maps 1-based user indexes to the ids behind them.
func resolve(l model.List, catIndex, itemIndex int) (categoryID, itemID string, ok bool) {
	if catIndex < 1 || catIndex > len(l.CategoryOrder) {
		ui.Fail(fmt.Sprintf("category index out of range: have %d, got %d", len(l.CategoryOrder), catIndex))
		hintLs()
		return "", "", false
	}
	c, _ := l.CategoryAt(catIndex - 1)
	if itemIndex < 1 || itemIndex > len(c.ItemIDs) {
		ui.Fail(fmt.Sprintf("item index out of range: %q has %d, got %d", c.Name, len(c.ItemIDs), itemIndex))
		hintLs()
		return "", "", false
	}
	return c.ID, c.ItemIDs[itemIndex-1], true
}

func hintLs() {
	ui.Hint("Hint: run `shoplist ls` to see valid indexes")
}

// -------------- subcommand impls ----------------

func doList(opt Options) int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}

	header := fmt.Sprintf("%s  %s %d  %s %d",
		ui.C(ui.Current().Title, "Shopping list"),
		ui.C(ui.Current().Accent, "categories"), len(list.Categories),
		ui.C(ui.Current().Accent, "items"), list.Len(),
	)

	lines := []string{header, ""}
	if list.Len() == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "no items"))
	}
	for category, items := range list.OrderedCategories() {
		lines = append(lines, ui.CategoryLine(category.Name, len(items)))
		for i, it := range items {
			lines = append(lines, ui.ItemLine(i+1, model.FormatQuantity(it.Quantity), it.Name))
		}
		lines = append(lines, "")
	}
	if opt.Plain {
		for _, ln := range lines {
			fmt.Println(ln)
		}
		return 0
	}
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `shoplist add 2 Milk @Dairy`"))
	ui.Panel(lines)
	return 0
}

func doInteractive() int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if err := tui.Run(list, jsonstore.Save); err != nil {
		ui.Fail("ui: " + err.Error())
		return 1
	}
	return 0
}

func doAdd(name string, qty float64, category string) int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	list = list.CreateItem(name, qty, category)
	if err := jsonstore.Save(list); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("added")
	return 0
}

func doUpdate(catIndex, itemIndex int, upd model.ItemUpdate) int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	_, itemID, ok := resolve(list, catIndex, itemIndex)
	if !ok {
		return 2
	}
	list, err = list.UpdateItem(itemID, upd)
	if err != nil {
		ui.Fail("update: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(list); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("updated")
	return 0
}

func doRename(catIndex int, name string) int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if catIndex < 1 || catIndex > len(list.CategoryOrder) {
		ui.Fail(fmt.Sprintf("category index out of range: have %d, got %d", len(list.CategoryOrder), catIndex))
		hintLs()
		return 2
	}
	c, _ := list.CategoryAt(catIndex - 1)
	list, err = list.RenameCategory(c.ID, name)
	if err != nil {
		ui.Fail("rename: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(list); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("renamed")
	return 0
}

func doRemoveItem(catIndex, itemIndex int) int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	categoryID, itemID, ok := resolve(list, catIndex, itemIndex)
	if !ok {
		return 2
	}
	list, err = list.DeleteItem(categoryID, itemID)
	if err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(list); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func doRemoveCategory(catIndex int) int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if catIndex < 1 || catIndex > len(list.CategoryOrder) {
		ui.Fail(fmt.Sprintf("category index out of range: have %d, got %d", len(list.CategoryOrder), catIndex))
		hintLs()
		return 2
	}
	c, _ := list.CategoryAt(catIndex - 1)
	list, err = list.DeleteCategory(c.ID)
	if err != nil {
		ui.Fail("rmcat: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(list); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("removed " + c.Name)
	return 0
}

func doMoveItem(srcCatArg, fromArg, dstCatArg, toArg string) int {
	srcCat, err := strconv.Atoi(srcCatArg)
	if err != nil {
		ui.Fail("mv: not a number: " + srcCatArg)
		return 2
	}
	from, err := strconv.Atoi(fromArg)
	if err != nil {
		ui.Fail("mv: not a number: " + fromArg)
		return 2
	}
	dstCat, err := strconv.Atoi(dstCatArg)
	if err != nil {
		ui.Fail("mv: not a number: " + dstCatArg)
		return 2
	}
	to, err := strconv.Atoi(toArg)
	if err != nil {
		ui.Fail("mv: not a number: " + toArg)
		return 2
	}

	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if srcCat < 1 || srcCat > len(list.CategoryOrder) || dstCat < 1 || dstCat > len(list.CategoryOrder) {
		ui.Fail(fmt.Sprintf("category index out of range: have %d", len(list.CategoryOrder)))
		hintLs()
		return 2
	}
	src, _ := list.CategoryAt(srcCat - 1)
	dst, _ := list.CategoryAt(dstCat - 1)
	list, err = list.ReorderItem(src.ID, from-1, dst.ID, to-1)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			ui.Fail("mv: " + err.Error())
			hintLs()
			return 2
		}
		ui.Fail("mv: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(list); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("moved")
	return 0
}

func doMoveCategory(fromArg, toArg string) int {
	from, err := strconv.Atoi(fromArg)
	if err != nil {
		ui.Fail("mvcat: not a number: " + fromArg)
		return 2
	}
	to, err := strconv.Atoi(toArg)
	if err != nil {
		ui.Fail("mvcat: not a number: " + toArg)
		return 2
	}
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	list, err = list.ReorderCategory(from-1, to-1)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			ui.Fail("mvcat: " + err.Error())
			hintLs()
			return 2
		}
		ui.Fail("mvcat: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(list); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("moved")
	return 0
}

func doExport(copyToClipboard bool) int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	text := list.ExportText()
	if copyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			ui.Fail("clipboard: " + err.Error())
			return 1
		}
		ui.OK("copied to clipboard")
		return 0
	}
	fmt.Println(text)
	return 0
}

func doNew() int {
	list, err := jsonstore.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(list.StartNewList()); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("started a new list")
	return 0
}
