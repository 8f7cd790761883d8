package layoutcmd

import (
	"context"
	"fmt"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-layout/internal/commands"
	"github.com/goliatone/go-cms-layout/internal/tree"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// Option customises an Editor.
type Option func(*Editor)

// WithLogger sets the logger used by every handler.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeout overrides the per command timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Editor) {
		e.timeout = timeout
	}
}

// Editor applies edit commands to one page. Commands mutate the tree and
// must run on the goroutine that owns the page's event loop.
type Editor struct {
	page    *tree.Page
	logger  interfaces.Logger
	timeout time.Duration

	addRow            *commands.Handler[AddRowCommand]
	removeRow         *commands.Handler[RemoveRowCommand]
	addBlock          *commands.Handler[AddBlockCommand]
	selectColumn      *commands.Handler[SelectColumnCommand]
	removeBlock       *commands.Handler[RemoveBlockCommand]
	moveBlock         *commands.Handler[MoveBlockCommand]
	syncPage          *commands.Handler[SyncPageCommand]
	changeContentType *commands.Handler[ChangeContentTypeCommand]
	submitFields      *commands.Handler[SubmitFieldsCommand]
	decorateContent   *commands.Handler[DecorateContentCommand]
}

// NewEditor builds the handlers for page. Structural removals and moves are
// followed by a page sync.
func NewEditor(page *tree.Page, opts ...Option) *Editor {
	if page == nil {
		panic("layoutcmd: page cannot be nil")
	}
	e := &Editor{page: page, timeout: commands.DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	e.addRow = newHandler[AddRowCommand](e, "add_row", e.execAddRow)
	e.removeRow = newHandler[RemoveRowCommand](e, "remove_row", e.execRemoveRow, commands.WithAfter(syncAfter[RemoveRowCommand](page)))
	e.addBlock = newHandler[AddBlockCommand](e, "add_block", e.execAddBlock)
	e.selectColumn = newHandler[SelectColumnCommand](e, "select_column", e.execSelectColumn)
	e.removeBlock = newHandler[RemoveBlockCommand](e, "remove_block", e.execRemoveBlock, commands.WithAfter(syncAfter[RemoveBlockCommand](page)))
	e.moveBlock = newHandler[MoveBlockCommand](e, "move_block", e.execMoveBlock, commands.WithAfter(syncAfter[MoveBlockCommand](page)))
	e.syncPage = newHandler[SyncPageCommand](e, "sync_page", e.execSyncPage)
	e.changeContentType = newHandler[ChangeContentTypeCommand](e, "change_content_type", e.execChangeContentType)
	e.submitFields = newHandler[SubmitFieldsCommand](e, "submit_fields", e.execSubmitFields)
	e.decorateContent = newHandler[DecorateContentCommand](e, "decorate_content", e.execDecorateContent)
	return e
}

func newHandler[T command.Message](e *Editor, operation string, fn command.CommandFunc[T], extra ...commands.HandlerOption[T]) *commands.Handler[T] {
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](e.logger),
		commands.WithTimeout[T](e.timeout),
		commands.WithOperation[T](operation),
	}
	return commands.NewHandler(fn, append(opts, extra...)...)
}

func syncAfter[T command.Message](page *tree.Page) func(context.Context, T) {
	return func(context.Context, T) { page.Sync() }
}

// Page returns the edited page.
func (e *Editor) Page() *tree.Page { return e.page }

// Dispatch routes msg to its handler.
func (e *Editor) Dispatch(ctx context.Context, msg command.Message) error {
	switch m := msg.(type) {
	case AddRowCommand:
		return e.addRow.Execute(ctx, m)
	case RemoveRowCommand:
		return e.removeRow.Execute(ctx, m)
	case AddBlockCommand:
		return e.addBlock.Execute(ctx, m)
	case SelectColumnCommand:
		return e.selectColumn.Execute(ctx, m)
	case RemoveBlockCommand:
		return e.removeBlock.Execute(ctx, m)
	case MoveBlockCommand:
		return e.moveBlock.Execute(ctx, m)
	case SyncPageCommand:
		return e.syncPage.Execute(ctx, m)
	case ChangeContentTypeCommand:
		return e.changeContentType.Execute(ctx, m)
	case SubmitFieldsCommand:
		return e.submitFields.Execute(ctx, m)
	case DecorateContentCommand:
		return e.decorateContent.Execute(ctx, m)
	default:
		return fmt.Errorf("layoutcmd: unsupported message %s", command.GetMessageType(msg))
	}
}

func (e *Editor) execAddRow(_ context.Context, msg AddRowCommand) error {
	grid, ok := e.page.Grid(msg.Grid)
	if !ok {
		return notFound("grid %q", msg.Grid)
	}
	_, err := grid.AddRow(msg.Template)
	return err
}

func (e *Editor) execRemoveRow(_ context.Context, msg RemoveRowCommand) error {
	grid, ok := e.page.Grid(msg.Grid)
	if !ok {
		return notFound("grid %q", msg.Grid)
	}
	rows := grid.Rows()
	if msg.Row >= len(rows) {
		return notFound("row %d in grid %q", msg.Row, msg.Grid)
	}
	return grid.RemoveRow(rows[msg.Row])
}

func (e *Editor) execAddBlock(_ context.Context, msg AddBlockCommand) error {
	if msg.Column == nil {
		_, err := e.page.AddBlock(msg.Template)
		return err
	}
	column, err := e.column(*msg.Column)
	if err != nil {
		return err
	}
	_, err = column.AddBlock(msg.Template)
	return err
}

func (e *Editor) execSelectColumn(_ context.Context, msg SelectColumnCommand) error {
	column, err := e.column(msg.Column)
	if err != nil {
		return err
	}
	return column.Select()
}

func (e *Editor) execRemoveBlock(_ context.Context, msg RemoveBlockCommand) error {
	block, column, err := e.block(msg.Block)
	if err != nil {
		return err
	}
	return column.RemoveBlock(block)
}

func (e *Editor) execMoveBlock(_ context.Context, msg MoveBlockCommand) error {
	block, _, err := e.block(msg.Block)
	if err != nil {
		return err
	}
	target, err := e.column(msg.To)
	if err != nil {
		return err
	}
	return e.page.MoveBlock(block, target, msg.Index)
}

func (e *Editor) execSyncPage(context.Context, SyncPageCommand) error {
	e.page.Sync()
	return nil
}

func (e *Editor) execChangeContentType(_ context.Context, msg ChangeContentTypeCommand) error {
	node, err := e.content(msg.Target)
	if err != nil {
		return err
	}
	return node.ChangeContentType(msg.ContentType)
}

func (e *Editor) execSubmitFields(_ context.Context, msg SubmitFieldsCommand) error {
	node, err := e.content(msg.Target)
	if err != nil {
		return err
	}
	return node.SubmitFields(msg.Fields)
}

func (e *Editor) execDecorateContent(_ context.Context, msg DecorateContentCommand) error {
	node, err := e.content(msg.Target)
	if err != nil {
		return err
	}
	if msg.Wrapper != nil {
		if err := node.SetWrapper(*msg.Wrapper); err != nil {
			return err
		}
	}
	if msg.Skin != nil {
		return node.SetSkin(*msg.Skin)
	}
	return nil
}

func (e *Editor) column(ref ColumnRef) (*tree.Column, error) {
	grid, ok := e.page.Grid(ref.Grid)
	if !ok {
		return nil, notFound("grid %q", ref.Grid)
	}
	rows := grid.Rows()
	if ref.Row >= len(rows) {
		return nil, notFound("row %d in grid %q", ref.Row, ref.Grid)
	}
	columns := rows[ref.Row].Columns()
	if ref.Column >= len(columns) {
		return nil, notFound("column %d in %s row %d", ref.Column, ref.Grid, ref.Row)
	}
	return columns[ref.Column], nil
}

func (e *Editor) block(ref BlockRef) (*tree.Block, *tree.Column, error) {
	column, err := e.column(ref.Column)
	if err != nil {
		return nil, nil, err
	}
	blocks := column.Blocks()
	if ref.Block >= len(blocks) {
		return nil, nil, notFound("block %d in %s", ref.Block, column)
	}
	return blocks[ref.Block], column, nil
}

func (e *Editor) content(ref ContentRef) (*tree.Content, error) {
	block, _, err := e.block(ref.Block)
	if err != nil {
		return nil, err
	}
	slots := block.Contents()
	if ref.Slot >= len(slots) {
		return nil, notFound("slot %d in %s", ref.Slot, block)
	}
	return slots[ref.Slot], nil
}

func notFound(format string, args ...any) error {
	return commands.NodeNotFound(fmt.Errorf("%w: "+format, append([]any{commands.ErrNodeNotFound}, args...)...))
}
