package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spendlog/spendlog/internal/icon"
	"github.com/spendlog/spendlog/internal/id"
	"github.com/spendlog/spendlog/internal/log"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/tsv"
)

// Store is the state the importer reads and mutates.
type Store interface {
	Categories(ctx context.Context) ([]model.Category, error)
	PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	AddCategory(ctx context.Context, name string) (model.Category, error)
	AddPaymentMethod(ctx context.Context, name string) (model.PaymentMethod, error)
	AddTransactions(ctx context.Context, txns []model.Transaction) error
	UpdateUserSettings(ctx context.Context, settings model.UserSettings) error
	SetAppIcon(ctx context.Context, icon model.AppIcon) error
}

// IconRenderer derives app icon assets from an emoji.
type IconRenderer interface {
	Render(ctx context.Context, emoji string) (model.AppIcon, error)
}

// Importer reconciles parsed exports against a Store.
type Importer struct {
	store           Store
	icons           IconRenderer
	newID           func() string
	defaultCurrency string
	logger          *log.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithIcons replaces the icon renderer.
func WithIcons(r IconRenderer) Option {
	return func(im *Importer) { im.icons = r }
}

// WithIDs replaces the transaction id generator.
func WithIDs(next func() string) Option {
	return func(im *Importer) { im.newID = next }
}

// WithDefaultCurrency sets the currency applied when a file names none.
func WithDefaultCurrency(code string) Option {
	return func(im *Importer) {
		if code != "" {
			im.defaultCurrency = code
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(im *Importer) {
		if l != nil {
			im.logger = l
		}
	}
}

// New creates an Importer over s.
func New(s Store, opts ...Option) *Importer {
	im := &Importer{
		store:           s,
		icons:           icon.Renderer{},
		newID:           id.New,
		defaultCurrency: model.DefaultCurrency,
		logger:          log.Nop(),
	}
	for _, o := range opts {
		o(im)
	}
	im.logger = im.logger.WithComponent(log.ComponentImporter)
	return im
}

// Report summarizes one import run.
type Report struct {
	Transactions []model.Transaction // stored by this run
	Errors       []model.ImportError // parse errors first, then reconciliation errors
	Dropped      int                 // rows whose column count did not match the header
	Skipped      int                 // rows already present
}

// Imported returns the number of transactions stored.
func (r *Report) Imported() int { return len(r.Transactions) }

// Run parses r, reconciles it and stores the resulting transactions. It fails
// only when the content is unreadable or the final insert fails; everything
// else is collected in Report.Errors.
func (im *Importer) Run(ctx context.Context, r io.Reader) (*Report, error) {
	parsed, err := tsv.Parse(r)
	if err != nil {
		im.logger.WarnContext(ctx, "import aborted", log.FieldOperation, log.OpParse, log.FieldError, err)
		return nil, err
	}
	if parsed.Dropped > 0 {
		im.logger.DebugContext(ctx, "rows dropped for column mismatch", log.FieldDropped, parsed.Dropped)
	}

	res := im.Transform(ctx, parsed.Data)

	if len(res.Transactions) > 0 {
		if err := im.store.AddTransactions(ctx, res.Transactions); err != nil {
			im.logger.Failure(ctx, "storing imported transactions failed", err, log.FieldOperation, log.OpInsert)
			return nil, fmt.Errorf("storing transactions: %w", err)
		}
	}

	report := &Report{
		Transactions: res.Transactions,
		Errors:       append(append([]model.ImportError(nil), parsed.Errors...), res.Errors...),
		Dropped:      parsed.Dropped,
		Skipped:      res.Skipped,
	}
	im.logger.InfoContext(ctx, "import finished",
		log.FieldImported, report.Imported(),
		log.FieldDropped, report.Dropped,
		log.FieldSkipped, report.Skipped,
		log.FieldErrors, len(report.Errors))
	return report, nil
}

// RunFile imports the export at path.
func (im *Importer) RunFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return im.Run(ctx, f)
}

// FileInfo describes an export waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// processedDir is the subdirectory of the import directory holding finished files.
const processedDir = "processed"

// Scan returns the .tsv files directly inside dir. A missing dir yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".tsv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves dir/fileName into dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
