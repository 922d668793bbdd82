package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/dateutil"
	"github.com/emarron/quaderno/internal/output"
	"github.com/emarron/quaderno/internal/staging"
	"github.com/emarron/quaderno/internal/textfile"
)

// Pipeline runs one publication: source file to archive entry to commit.
// All repo-relative paths use forward slashes; Root anchors them on disk.
type Pipeline struct {
	Root        string
	ArchivePath string
	TextosDir   string
	StagingPath string
	Branch      string
	Remote      string

	VCS     VCS
	Confirm output.Confirmer

	// ApplyStaged applies the pending keyword proposal (the --kw flag).
	// Without it, an existing entry keeps its archived keywords and a
	// brand-new entry cannot be published.
	ApplyStaged bool

	DryRun bool
	Push   bool

	// OnPreview, when set, is called with the pending result right
	// before confirmation (and before a dry run returns), so callers
	// can show what would be committed.
	OnPreview func(Result)
}

// Result describes what a publication run did (or, for a dry run,
// would have done).
type Result struct {
	Date       string `json:"date"`
	File       string `json:"file"`
	CommitType string `json:"commit_type"`
	Message    string `json:"message,omitempty"`
	Label      string `json:"label"`
	Keywords   int    `json:"keywords"`
	Normalized bool   `json:"normalized"`
	Committed  bool   `json:"committed"`
	Pushed     bool   `json:"pushed"`
	DryRun     bool   `json:"dry_run"`
}

// Run publishes the entry for date. An empty date means the day after
// the latest archive entry.
func (p *Pipeline) Run(date string) (*Result, error) {
	if err := p.guardBranch(); err != nil {
		return nil, err
	}
	if err := p.guardStagedFiles(); err != nil {
		return nil, err
	}

	store, err := archive.Load(p.abs(p.ArchivePath))
	if err != nil {
		return nil, err
	}

	date, err = p.resolveDate(store, date)
	if err != nil {
		return nil, err
	}

	srcPath := textfile.ResolvePath(p.abs(p.TextosDir), date)
	relFile, err := p.rel(srcPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, output.NewUserError("no existe el texto de " + date + ": " + relFile + " (créalo con 'quaderno new')")
		}
		return nil, output.NewSystemErrorWithCause("no pude leer "+relFile, err)
	}

	src := textfile.Parse(string(raw))
	if err := textfile.StrictValidate(src, date, filepath.Base(srcPath)); err != nil {
		return nil, err
	}

	// Normalization rewrites the file right away, before change
	// detection. A later abort leaves at most a rewritten (still
	// valid) source file, which is an idempotent, safe side effect.
	normalized, normChanged := textfile.Normalize(string(raw), date)
	if normChanged {
		if err := archive.AtomicWrite(srcPath, []byte(normalized)); err != nil {
			return nil, output.NewSystemErrorWithCause("no pude escribir "+relFile, err)
		}
		src = textfile.Parse(normalized)
	}

	entry := textfile.BuildEntry(src, date, relFile)

	existing, found := store.FindByDate(date)
	if !found {
		if err := p.confirmNewDate(store, date); err != nil {
			return nil, err
		}
	}

	slot, err := staging.Load(p.abs(p.StagingPath))
	if err != nil {
		return nil, err
	}

	keywords, slotUsed, err := p.mergeKeywords(slot, date, found, existing.Keywords)
	if err != nil {
		return nil, err
	}
	entry.Keywords = keywords

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	fileDiff := normChanged
	if !fileDiff {
		fileDiff, err = p.VCS.FileHasDiff(relFile)
		if err != nil {
			return nil, err
		}
	}

	contentChanged := found && (!archive.ContentEqual(&existing, &entry) || fileDiff)
	keywordsChanged := found && !archive.KeywordsEqual(existing.Keywords, keywords)

	ctype := Classify(!found, contentChanged, keywordsChanged)

	result := &Result{
		Date:       date,
		File:       relFile,
		CommitType: ctype.String(),
		Label:      entry.Label(),
		Keywords:   len(keywords),
		Normalized: normChanged,
		DryRun:     p.DryRun,
	}

	if ctype == NoChange {
		return result, nil
	}
	result.Message = CommitMessage(ctype, date, entry.Label())

	if p.OnPreview != nil {
		p.OnPreview(*result)
	}
	if p.DryRun {
		return result, nil
	}

	ok, err := p.confirm(fmt.Sprintf("¿Publicar %s (%s)?", date, ctype.String()), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, output.NewCancelledError("publicación cancelada")
	}

	if err := p.persist(store, &entry); err != nil {
		return nil, err
	}

	return p.commit(result, slotUsed)
}

// guardBranch refuses to publish from any branch but the configured one.
func (p *Pipeline) guardBranch() error {
	if p.Branch == "" {
		return nil
	}
	branch, err := p.VCS.CurrentBranch()
	if err != nil {
		return err
	}
	if branch != p.Branch {
		return output.NewConflictError(fmt.Sprintf("estás en la rama %s; cambia a %s antes de publicar", branch, p.Branch))
	}
	return nil
}

// guardStagedFiles asks before running on top of changes someone
// already staged: the commit would sweep them in.
func (p *Pipeline) guardStagedFiles() error {
	staged, err := p.VCS.HasStagedChanges()
	if err != nil {
		return err
	}
	if !staged {
		return nil
	}
	ok, err := p.confirm("hay cambios ajenos ya preparados en git, ¿continuar?", false)
	if err != nil {
		return err
	}
	if !ok {
		return output.NewCancelledError("publicación cancelada")
	}
	return nil
}

// resolveDate fills in the default date (day after the latest entry).
func (p *Pipeline) resolveDate(store *archive.Store, date string) (string, error) {
	if date == "" {
		return store.NextDate()
	}
	if _, err := dateutil.Parse(date); err != nil {
		return "", err
	}
	return date, nil
}

// confirmNewDate asks before publishing a brand-new entry out of
// sequence: earlier than the oldest published date or skipping past
// the expected next day. Both are almost always typos.
func (p *Pipeline) confirmNewDate(store *archive.Store, date string) error {
	if store.Len() == 0 {
		return nil
	}
	next, err := store.NextDate()
	if err != nil || date == next {
		return nil
	}

	question := fmt.Sprintf("la fecha %s no es la siguiente esperada (%s), ¿continuar?", date, next)
	if min := store.MinDate(); min != "" && date < min {
		question = fmt.Sprintf("la fecha %s es anterior a la más antigua del archivo (%s), ¿continuar?", date, min)
	}

	ok, err := p.confirm(question, false)
	if err != nil {
		return err
	}
	if !ok {
		return output.NewCancelledError("publicación cancelada")
	}
	return nil
}

// mergeKeywords decides the entry's keyword list. With ApplyStaged the
// pending proposal is validated and used; otherwise an existing entry
// keeps its archived keywords. A new entry can only be published by
// applying a proposal.
func (p *Pipeline) mergeKeywords(slot *staging.Slot, date string, found bool, existing []archive.Keyword) ([]archive.Keyword, bool, error) {
	if p.ApplyStaged {
		if err := slot.ValidateForApply(date); err != nil {
			return nil, false, err
		}
		kws := archive.NormalizeKeywords(slot.Keywords)
		if len(kws) == 0 {
			return nil, false, output.NewUserError("las palabras clave pendientes quedaron vacías tras normalizar")
		}
		return kws, true, nil
	}

	if !found {
		return nil, false, output.NewUserError("una entrada nueva necesita palabras clave: ejecuta 'quaderno keywords " + date + "' y publica con --kw")
	}
	return archive.NormalizeKeywords(existing), false, nil
}

func (p *Pipeline) persist(store *archive.Store, entry *archive.Entry) error {
	store.Upsert(*entry)
	if _, err := store.Save(); err != nil {
		return err
	}
	return nil
}

// commit stages exactly the text file and the archive (never the
// staging file) and commits. The staged diff is the final authority:
// when git sees nothing staged, the run is reported as NO_CHANGE and
// no commit is created. The staging slot is cleared only after the
// commit succeeds, so a failed commit leaves the proposal intact.
func (p *Pipeline) commit(result *Result, slotUsed bool) (*Result, error) {
	paths := []string{result.File, p.ArchivePath}

	if err := p.VCS.Add(paths...); err != nil {
		return nil, err
	}

	staged, err := p.VCS.HasStagedChanges(paths...)
	if err != nil {
		return nil, err
	}
	if !staged {
		result.CommitType = NoChange.String()
		result.Message = ""
		return result, nil
	}

	if err := p.VCS.Commit(result.Message); err != nil {
		return nil, err
	}
	result.Committed = true

	if slotUsed {
		if err := staging.Clear(p.abs(p.StagingPath)); err != nil {
			return nil, err
		}
	}

	if p.Push && p.Remote != "" {
		if err := p.VCS.Push(p.Remote, p.Branch); err != nil {
			return nil, err
		}
		result.Pushed = true
	}
	return result, nil
}

func (p *Pipeline) confirm(question string, defaultYes bool) (bool, error) {
	if p.Confirm == nil {
		return true, nil
	}
	return p.Confirm(question, defaultYes)
}

func (p *Pipeline) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

func (p *Pipeline) rel(abs string) (string, error) {
	rel, err := filepath.Rel(p.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", output.NewUserError("el texto queda fuera del repositorio: " + abs)
	}
	return filepath.ToSlash(rel), nil
}
