package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/lexqa/internal/client/metrics"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dustin/go-humanize"
)

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func (a *App) printErr(err error) {
	fprintln(a.out, "Error:", err.Error())
}

func (a *App) canQuery() bool {
	return a.session.CanQuery()
}

// getStatus renders the prompt status, e.g. "(online, 2 docs)".
func (a *App) getStatus() string {
	var parts []string
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}

	st := a.session.Directory.State()
	if st.Loaded {
		n := len(st.Documents)
		label := "docs"
		if n == 1 {
			label = "doc"
		}
		s := fmt.Sprintf("%d %s", n, label)
		if st.Stale {
			s += "*"
		}
		parts = append(parts, s)
	}
	if p := a.session.Uploads.State().Pending; p != nil {
		parts = append(parts, "selected "+p.File.Name)
	}
	if a.session.Deletions.State().Phase == models.DeletionConfirming {
		parts = append(parts, "confirm delete")
	}

	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (a *App) WhoAmI(ctx context.Context) error {
	id := a.session.UserID()
	if id == "" {
		fprintln(a.out, "No identity yet.")
		return common.ErrNoIdentity
	}
	if a.session.Identity.Persistent() {
		fprintln(a.out, "User:", id)
	} else {
		fprintln(a.out, "User:", id, "(this session only)")
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	st := a.session.Directory.State()

	if st.Stale {
		if st.LastError != nil {
			fprintf(a.out, "Showing the last known list; refresh failed: %s\n", st.LastError)
		} else {
			fprintln(a.out, "Showing the saved list; it has not been refreshed yet.")
		}
	}
	if len(st.Documents) == 0 {
		if st.Loaded {
			fprintln(a.out, "No documents uploaded yet.")
		}
		return nil
	}

	for _, d := range st.Documents {
		fprintf(a.out, "%s  %s  [%s]%s\n", d.ID, d.Filename, d.Status, describeMetadata(d.Metadata))
	}
	return nil
}

func describeMetadata(m models.DocumentMetadata) string {
	var parts []string
	if n := len(m.Sections); n > 0 {
		parts = append(parts, fmt.Sprintf("%d sections", n))
	}
	if m.TotalLength != nil {
		parts = append(parts, humanize.Comma(int64(*m.TotalLength))+" chars")
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, ", ")
}

func (a *App) Refresh(ctx context.Context) error {
	if _, err := a.session.Refresh(ctx); err != nil {
		a.printErr(err)
	}
	return a.List(ctx)
}

func (a *App) Select(ctx context.Context, path string) error {
	p, err := a.session.Select(path)
	if err != nil {
		a.printErr(err)
		return err
	}
	fprintf(a.out, "Selected %s (%s). Type 'upload' to send it.\n", p.File.Name, humanize.IBytes(uint64(p.File.Size)))
	return nil
}

func (a *App) Unselect(ctx context.Context) error {
	if err := a.session.Unselect(); err != nil {
		a.printErr(err)
		return err
	}
	fprintln(a.out, "Selection cleared.")
	return nil
}

func (a *App) Upload(ctx context.Context) error {
	st := a.session.Uploads.State()
	if st.Pending != nil && !st.InFlight {
		fprintf(a.out, "Uploading %s...\n", st.Pending.File.Name)
	}

	doc, err := a.session.Upload(ctx)
	if err != nil {
		a.printErr(err)
		return err
	}
	fprintf(a.out, "Uploaded %s (id %s, status %s).\n", doc.Filename, doc.ID, doc.Status)
	return a.List(ctx)
}

func (a *App) Delete(ctx context.Context, id string) error {
	req, err := a.session.RequestDeletion(id)
	if err != nil {
		a.printErr(err)
		return err
	}
	fprintf(a.out, "Delete %s? Type 'confirm' to delete it or 'cancel' to keep it.\n", req.Filename)
	return nil
}

func (a *App) Confirm(ctx context.Context) error {
	st := a.session.Deletions.State()
	if st.Request != nil && st.Phase == models.DeletionConfirming {
		fprintf(a.out, "Deleting %s...\n", st.Request.Filename)
	}

	if err := a.session.ConfirmDeletion(ctx); err != nil {
		a.printErr(err)
		return err
	}
	fprintln(a.out, "Deleted.")
	return a.List(ctx)
}

func (a *App) Cancel(ctx context.Context) error {
	if err := a.session.CancelDeletion(); err != nil {
		a.printErr(err)
		return err
	}
	fprintln(a.out, "Deletion cancelled.")
	return nil
}

func (a *App) Ask(ctx context.Context, question string) error {
	if strings.TrimSpace(question) == "" {
		q, err := GetSimpleText(a.reader, "Enter your question", a.out)
		if err != nil {
			return err
		}
		question = q
	}

	if a.session.Directory.Len() == 0 {
		fprintln(a.out, "Upload a document before asking questions.")
		return common.ErrNoDocuments
	}

	fprintln(a.out, "Thinking...")
	answer, err := a.session.Ask(ctx, question)
	if err != nil {
		a.printErr(err)
		return err
	}
	renderAnswer(a.out, answer)
	return nil
}

func renderAnswer(w io.Writer, ans *models.Answer) {
	fprintln(w, "Answer:", ans.Text)
	if pct, ok := ans.ConfidencePercent(); ok {
		fprintf(w, "Confidence: %d%%\n", pct)
	}
	if ans.Source != nil && *ans.Source != "" {
		fprintln(w, "Source:", *ans.Source)
	}
	if len(ans.RelevantChunks) == 0 {
		return
	}

	fprintln(w, "Relevant excerpts:")
	for i, c := range ans.RelevantChunks {
		header := fmt.Sprintf("[%d] %s", i+1, c.Source)
		if pct, ok := c.SimilarityPercent(); ok {
			header += fmt.Sprintf(" (%d%% match)", pct)
		}
		fprintln(w, header)
		fprintln(w, "    "+strings.ReplaceAll(strings.TrimSpace(c.Text), "\n", "\n    "))
	}
}

func (a *App) Status(ctx context.Context) error {
	mode := a.Mode()
	if mode == "" {
		mode = "unknown"
	}
	fprintln(a.out, "Server:", a.config.ServerURL, "("+string(mode)+")")
	_ = a.WhoAmI(ctx)

	dir := a.session.Directory.State()
	line := fmt.Sprintf("Documents: %d", len(dir.Documents))
	if dir.Stale {
		line += " (stale)"
	}
	fprintln(a.out, line)

	up := a.session.Uploads.State()
	switch {
	case up.InFlight:
		fprintln(a.out, "Upload: in progress")
	case up.Pending != nil:
		fprintf(a.out, "Upload: %s selected (%s)\n", up.Pending.File.Name, humanize.IBytes(uint64(up.Pending.File.Size)))
	case up.LastError != nil:
		fprintln(a.out, "Upload: last attempt failed:", up.LastError)
	default:
		fprintln(a.out, "Upload: nothing selected")
	}

	del := a.session.Deletions.State()
	switch {
	case del.Request != nil:
		fprintf(a.out, "Deletion: %s %s\n", del.Phase, del.Request.Filename)
	case del.LastError != nil:
		fprintln(a.out, "Deletion: last attempt failed:", del.LastError)
	}

	q := a.session.Queries.State()
	fprintln(a.out, "Question:", string(q.Phase))
	if q.Phase == models.QueryFailed && q.Err != nil {
		fprintln(a.out, "  error:", q.Err)
	}
	if len(dir.Documents) == 0 {
		fprintln(a.out, "  questions are disabled until a document is uploaded")
	}

	a.printCounters(ctx)
	return nil
}

func (a *App) printCounters(ctx context.Context) {
	samples, err := metrics.ClientCounters()
	if err != nil {
		a.log.Warn(ctx, "gather metrics", "err", err)
		return
	}
	if len(samples) == 0 {
		return
	}
	fprintln(a.out, "Counters:")
	for _, s := range samples {
		fprintln(a.out, "  "+s.String())
	}
}
