package feature

import (
	"context"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// IDE exposes editor tooling: extensions, shortcuts, themes and settings.
type IDE struct {
	ide content.IDE
}

func NewIDE(ide content.IDE) *IDE {
	return &IDE{ide: ide}
}

func (i *IDE) Name() string    { return "ide" }
func (i *IDE) Title() string   { return "IDE Tools" }
func (i *IDE) Summary() string { return "Extensions, shortcuts, themes and settings" }

func (i *IDE) Enter(sess *terminal.Session) *terminal.Response {
	return i.settings(context.Background(), sess, terminal.Command{})
}

func (i *IDE) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "extensions", Aliases: []string{"ext"}, Summary: "List extensions", Handler: i.extensions},
		{Verb: "install", Usage: "install <id>", Summary: "Install an extension", MinArgs: 1, Handler: i.install},
		{Verb: "shortcuts", Aliases: []string{"keys"}, Summary: "Show keyboard shortcuts", Handler: i.shortcuts},
		{Verb: "themes", Summary: "List color themes", Handler: i.themes},
		{Verb: "theme", Usage: "theme <name>", Summary: "Switch the color theme", MinArgs: 1, Handler: i.theme},
		{Verb: "settings", Summary: "Show editor settings", Handler: i.settings},
	}
}

func (i *IDE) installed(sess *terminal.Session, ext content.Extension) bool {
	return ext.Installed || sess.IsInstalled(ext.ID)
}

func (i *IDE) extensions(_ context.Context, sess *terminal.Session, _ terminal.Command) *terminal.Response {
	items := make([]view.Item, len(i.ide.Extensions))
	for n, ext := range i.ide.Extensions {
		item := view.Item{Title: ext.Name, Meta: ext.ID + " by " + ext.Publisher, Body: ext.Description}
		if i.installed(sess, ext) {
			item.Badge = &view.Badge{Text: "installed", Tone: view.ToneGood}
		}
		items[n] = item
	}
	doc := view.Doc{ID: "ide-extensions", Title: "Extensions", Blocks: []view.Block{{Items: items}}}
	return terminal.Open(doc, "Type 'install <id>' to add one.")
}

func (i *IDE) install(_ context.Context, sess *terminal.Session, cmd terminal.Command) *terminal.Response {
	ext, ok := find(i.ide.Extensions, cmd.Arg(0), func(e content.Extension) string { return e.ID })
	if !ok {
		return terminal.Errorf("Extension '%s' not found. Type 'extensions' to list them.", cmd.Arg(0))
	}
	if i.installed(sess, ext) {
		return new(terminal.Response).Muted("%s is already installed.", ext.Name)
	}
	sess.Installed = append(sess.Installed, ext.ID)
	return terminal.Successf("Installed %s.", ext.Name)
}

func (i *IDE) shortcuts(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	rows := make([][]string, len(i.ide.Shortcuts))
	for n, s := range i.ide.Shortcuts {
		rows[n] = []string{s.Keys, s.Action}
	}
	doc := view.Doc{
		ID:     "ide-shortcuts",
		Title:  "Keyboard shortcuts",
		Blocks: []view.Block{{Table: &view.Table{Columns: []string{"keys", "action"}, Rows: rows}}},
	}
	return terminal.Open(doc, "%d shortcuts.", len(i.ide.Shortcuts))
}

func (i *IDE) themes(_ context.Context, sess *terminal.Session, _ terminal.Command) *terminal.Response {
	return themeList(i.ide.Themes, sess)
}

func (i *IDE) theme(_ context.Context, sess *terminal.Session, cmd terminal.Command) *terminal.Response {
	return setTheme(i.ide.Themes, sess, cmd.Arg(0))
}

func (i *IDE) settings(_ context.Context, sess *terminal.Session, _ terminal.Command) *terminal.Response {
	fields := make([]view.Field, 0, len(i.ide.Settings)+1)
	fields = append(fields, view.Field{Name: "workbench.colorTheme", Value: sess.Theme})
	for _, s := range i.ide.Settings {
		fields = append(fields, view.Field{Name: s.Key, Value: s.Value})
	}
	doc := view.Doc{ID: "ide-settings", Title: "settings.json", Blocks: []view.Block{{Fields: fields}}}
	return terminal.Open(doc, "Type 'help' to see what you can change.")
}

func themeList(themes []content.Theme, sess *terminal.Session) *terminal.Response {
	items := make([]view.Item, len(themes))
	for n, t := range themes {
		items[n] = view.Item{Title: t.Name, Body: t.Description}
		if t.Name == sess.Theme {
			items[n].Badge = &view.Badge{Text: "active", Tone: view.ToneGood}
		}
	}
	doc := view.Doc{ID: "themes", Title: "Themes", Blocks: []view.Block{{Items: items}}}
	return terminal.Open(doc, "Current theme: %s. Type 'theme <name>' to switch.", sess.Theme)
}

func setTheme(themes []content.Theme, sess *terminal.Session, name string) *terminal.Response {
	t, ok := find(themes, name, func(t content.Theme) string { return t.Name })
	if !ok {
		return terminal.Errorf("Theme '%s' not found. Type 'themes' to list them.", name)
	}
	sess.Theme = t.Name
	return terminal.Successf("Theme set to %s.", t.Name)
}
