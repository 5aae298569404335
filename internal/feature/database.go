package feature

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// Database is the schema viewer over a mock database.
type Database struct {
	db content.Database
}

func NewDatabase(db content.Database) *Database {
	return &Database{db: db}
}

func (d *Database) Name() string    { return "database" }
func (d *Database) Title() string   { return "Database Viewer" }
func (d *Database) Summary() string { return "Explore a schema and run sample queries" }

func (d *Database) Enter(sess *terminal.Session) *terminal.Response {
	return d.schema(context.Background(), sess, terminal.Command{})
}

func (d *Database) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "schema", Aliases: []string{"tables"}, Summary: "Show all tables", Handler: d.schema},
		{Verb: "table", Aliases: []string{"describe"}, Usage: "table <name>", Summary: "Show columns and sample rows", MinArgs: 1, Handler: d.table},
		{Verb: "queries", Summary: "List sample queries", Handler: d.queries},
		{Verb: "query", Usage: "query <n>", Summary: "Run sample query n", MinArgs: 1, Handler: d.query},
	}
}

func (d *Database) schema(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	rows := make([][]string, len(d.db.Tables))
	for i, t := range d.db.Tables {
		rows[i] = []string{t.Name, strconv.Itoa(len(t.Columns)), strconv.Itoa(len(t.Rows)), t.Description}
	}
	doc := view.Doc{
		ID:       "database",
		Title:    "Schema: " + d.db.Name,
		Subtitle: d.db.Engine,
		Blocks:   []view.Block{{Table: &view.Table{Columns: []string{"table", "columns", "rows", "description"}, Rows: rows}}},
	}
	return terminal.Open(doc, "%d tables in %s. Type 'table <name>' to inspect one.", len(d.db.Tables), d.db.Name)
}

func (d *Database) table(_ context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	t, ok := find(d.db.Tables, cmd.Arg(0), func(t content.Table) string { return t.Name })
	if !ok {
		return terminal.Errorf("Table '%s' not found. Type 'schema' to see available tables.", cmd.Arg(0))
	}

	cols := make([][]string, len(t.Columns))
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		nullable := "NOT NULL"
		if c.Nullable {
			nullable = "NULL"
		}
		cols[i] = []string{c.Name, c.Type, c.Key, nullable}
		names[i] = c.Name
	}
	doc := view.Doc{
		ID:       "table:" + t.Name,
		Title:    t.Name,
		Subtitle: t.Description,
		Blocks: []view.Block{
			{Heading: "Columns", Table: &view.Table{Columns: []string{"column", "type", "key", "null"}, Rows: cols}},
			{Heading: "Sample rows", Table: &view.Table{Columns: names, Rows: t.Rows}},
		},
	}
	return terminal.Open(doc, "Table %s: %d columns, %d sample rows.", t.Name, len(t.Columns), len(t.Rows))
}

func (d *Database) queries(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	items := make([]view.Item, len(d.db.Queries))
	for i, q := range d.db.Queries {
		items[i] = view.Item{Title: fmt.Sprintf("%d. %s", i+1, q.Title), Meta: firstLine(q.SQL)}
	}
	doc := view.Doc{ID: "queries", Title: "Sample queries", Blocks: []view.Block{{Items: items}}}
	return terminal.Open(doc, "Type 'query <n>' to run one.")
}

func (d *Database) query(_ context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	n, err := strconv.Atoi(cmd.Arg(0))
	if err != nil || n < 1 || n > len(d.db.Queries) {
		return terminal.Errorf("Query %s not found. Type 'queries' to list sample queries.", cmd.Arg(0))
	}
	q := d.db.Queries[n-1]
	doc := view.Doc{
		ID:    fmt.Sprintf("query:%d", n),
		Title: q.Title,
		Blocks: []view.Block{
			{Code: &view.Code{Language: "sql", Source: q.SQL}},
			{Heading: "Result", Table: &view.Table{Columns: q.Columns, Rows: q.Rows}},
		},
	}
	return terminal.Open(doc, "%d rows returned.", len(q.Rows))
}
