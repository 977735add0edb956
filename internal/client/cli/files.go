package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/filesmanager/internal/client/state"
	"github.com/dmitrijs2005/filesmanager/internal/filex"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/gabriel-vasile/mimetype"
)

// detectType picks image for payloads that sniff as images, file otherwise.
func detectType(data []byte) models.FileType {
	if strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return models.FileTypeImage
	}
	return models.FileTypeFile
}

func (a *App) printFiles(files ...models.FileView) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tPARENT\tPUBLIC")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", f.ID, f.Type, f.Name, parentLabel(f.ParentID), f.IsPublic)
	}
	_ = tw.Flush()
}

func parentLabel(p models.ParentRef) string {
	if models.IsRootParent(string(p)) {
		return models.RootParentID
	}
	return string(p)
}

func (a *App) upload(ctx context.Context, args []string) error {
	fs := newFlagSet("upload")
	fileType := fs.StringP("type", "t", "", "file or image, detected from content when empty")
	parent := fs.StringP("parent", "p", "", "parent folder id")
	public := fs.Bool("public", false, "make the file public")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	t := models.FileType(*fileType)
	if t == "" {
		t = detectType(data)
	}

	f, err := a.client.Upload(ctx, token, models.UploadRequest{
		Name:     filepath.Base(path),
		Type:     t,
		ParentID: models.ParentRef(*parent),
		IsPublic: *public,
		Data:     base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return err
	}

	a.printFiles(*f)
	return nil
}

func (a *App) mkdir(ctx context.Context, args []string) error {
	fs := newFlagSet("mkdir")
	parent := fs.StringP("parent", "p", "", "parent folder id")
	public := fs.Bool("public", false, "make the folder public")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	f, err := a.client.Upload(ctx, token, models.UploadRequest{
		Name:     fs.Arg(0),
		Type:     models.FileTypeFolder,
		ParentID: models.ParentRef(*parent),
		IsPublic: *public,
	})
	if err != nil {
		return err
	}

	a.printFiles(*f)
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := newFlagSet("ls")
	parent := fs.StringP("parent", "p", "", "folder id, root when empty")
	page := fs.Int("page", 0, "zero-based page number")
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	files, err := a.client.List(ctx, token, *parent, *page)
	if err != nil {
		return err
	}

	a.printFiles(files...)
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	return a.withFile(ctx, "show", args, a.client.Show)
}

func (a *App) publish(ctx context.Context, args []string) error {
	return a.withFile(ctx, "publish", args, a.client.Publish)
}

func (a *App) unpublish(ctx context.Context, args []string) error {
	return a.withFile(ctx, "unpublish", args, a.client.Unpublish)
}

// withFile runs an authenticated call taking a single file id and prints
// the resulting view.
func (a *App) withFile(ctx context.Context, name string, args []string,
	call func(ctx context.Context, token, id string) (*models.FileView, error)) error {

	fs := newFlagSet(name)
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	f, err := call(ctx, token, fs.Arg(0))
	if err != nil {
		return err
	}

	a.printFiles(*f)
	return nil
}

// get downloads content. Without a saved session only public files are
// reachable.
func (a *App) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get")
	size := fs.String("size", "", "thumbnail width, original when empty")
	out := fs.StringP("out", "o", "", "output path, stdout when empty")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	token, err := a.auth.Token(ctx)
	if err != nil && !errors.Is(err, state.ErrNoSession) {
		return err
	}

	content, err := a.client.Data(ctx, token, fs.Arg(0), *size)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = a.out.Write(content.Data)
		return err
	}

	if err := filex.WriteFile(*out, content.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes (%s) to %s\n", len(content.Data), content.ContentType, *out)
	return nil
}

func (a *App) status(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("status"), args, 0); err != nil {
		return err
	}

	st, err := a.client.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "redis: %t\ndb: %t\n", st.Redis, st.DB)
	return nil
}
