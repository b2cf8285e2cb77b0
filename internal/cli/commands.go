package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/workflow"
)

// Register creates a new account from prompted credentials.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.provider.SignUp(ctx, email, password); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}
	printlnFn("Registered. You can log in now.")
	return nil
}

// Login signs in and activates the workflow view through the session gate.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.provider.SignIn(ctx, email, password); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	if err := a.flow.Activate(ctx); err != nil {
		printlnFn("Session check failed, please log in again")
		return err
	}
	printlnFn("Logged in.")
	return nil
}

// List prints the files of the currently selected folder.
func (a *App) List(ctx context.Context) error {
	snap := a.flow.CurrentSnapshot()
	if len(snap.Files) == 0 {
		printlnFn("(no files)")
		return nil
	}
	for _, f := range snap.Files {
		printlnFn(fmt.Sprintf("%s  %10d  %-30s  %s",
			f.CreatedAt.Format("2006-01-02 15:04"), f.FileSize, f.OriginalName, f.ID))
	}
	return nil
}

// Folders prints the folder listing.
func (a *App) Folders(ctx context.Context) error {
	snap := a.flow.CurrentSnapshot()
	if len(snap.Folders) == 0 {
		printlnFn("(no folders)")
		return nil
	}
	for _, f := range snap.Folders {
		marker := " "
		if snap.SelectedFolderID != nil && *snap.SelectedFolderID == f.ID {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %-30s  %s", marker, f.Name, f.ID))
	}
	return nil
}

// MkDir creates a folder under the top level.
func (a *App) MkDir(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Folder name", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.flow.CreateFolder(ctx, name, nil); err != nil {
		printlnFn("Create failed:", err.Error())
		return err
	}
	printlnFn("Created.")
	return nil
}

// ChDir selects a folder by name, or "/" for the top level.
func (a *App) ChDir(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, `Folder name ("/" for top level)`, os.Stdout)
	if err != nil {
		return err
	}
	if name == "/" || name == "" {
		a.flow.SelectFolder(ctx, nil)
		return nil
	}
	for _, f := range a.flow.CurrentSnapshot().Folders {
		if f.Name == name {
			id := f.ID
			a.flow.SelectFolder(ctx, &id)
			return nil
		}
	}
	printlnFn("No such folder:", name)
	return nil
}

// Upload reads local paths (space-separated) and queues them sequentially.
func (a *App) Upload(ctx context.Context) error {
	line, err := GetSimpleText(a.reader, "Local file path(s)", os.Stdout)
	if err != nil {
		return err
	}

	var uploads []workflow.Upload
	var handles []*os.File
	defer func() {
		for _, h := range handles {
			_ = h.Close()
		}
	}()

	for _, path := range strings.Fields(line) {
		f, err := os.Open(path)
		if err != nil {
			printlnFn("Skipping:", err.Error())
			continue
		}
		info, err := f.Stat()
		if err != nil {
			printlnFn("Skipping:", err.Error())
			_ = f.Close()
			continue
		}
		handles = append(handles, f)
		uploads = append(uploads, workflow.Upload{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Size:        info.Size(),
			Payload:     f,
		})
	}
	if len(uploads) == 0 {
		return nil
	}

	if err := a.flow.UploadFiles(ctx, uploads); err != nil {
		printlnFn("Upload finished with errors:", err.Error())
	}
	for _, t := range a.flow.CurrentSnapshot().Tasks {
		printlnFn(fmt.Sprintf("%-30s %3d%% %s", t.FileName, t.Progress, t.Status))
	}
	return nil
}

// Download fetches a file by id into the current directory.
func (a *App) Download(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}
	record, data, err := a.flow.DownloadFile(ctx, id)
	if err != nil {
		printlnFn("Download failed:", err.Error())
		return err
	}
	if err := os.WriteFile(record.OriginalName, data, 0o600); err != nil {
		printlnFn("Write failed:", err.Error())
		return err
	}
	printlnFn("Saved", record.OriginalName)
	return nil
}

// Remove deletes a file by id.
func (a *App) Remove(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.flow.DeleteFile(ctx, id); err != nil {
		printlnFn("Delete failed:", err.Error())
		return err
	}
	printlnFn("Deleted.")
	return nil
}

// RmDir deletes a folder and its files after explicit confirmation.
func (a *App) RmDir(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Folder name", os.Stdout)
	if err != nil {
		return err
	}
	for _, f := range a.flow.CurrentSnapshot().Folders {
		if f.Name == name {
			ok, err := Confirm(a.reader, fmt.Sprintf("Delete folder %q and all its files?", name), os.Stdout)
			if err != nil {
				return err
			}
			if !ok {
				printlnFn("Cancelled.")
				return nil
			}
			if err := a.flow.DeleteFolder(ctx, f.ID); err != nil {
				printlnFn("Delete failed:", err.Error())
				return err
			}
			printlnFn("Deleted.")
			return nil
		}
	}
	printlnFn("No such folder:", name)
	return nil
}

// ShareURL prints a temporary read URL for a file.
func (a *App) ShareURL(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}
	url := a.flow.PreviewURL(ctx, id)
	if url == "" {
		printlnFn("No URL available.")
		return nil
	}
	printlnFn(url)
	return nil
}

// Logout signs out; the session gate tears the view state down.
func (a *App) Logout(ctx context.Context) error {
	if err := a.flow.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}
