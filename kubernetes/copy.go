// Copyright 2024 loadctrl authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kubernetes

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CopyToPod transfers a local file or directory into the pod at remotePath.
// The transfer is a tar stream piped into the pod, the same technique kubectl
// uses for cp: the local side archives into the exec's stdin while tar inside
// the pod extracts into the destination directory. An empty container selects
// the pod's default container.
func (a *Adapter) CopyToPod(ctx context.Context, namespace, pod, container, localPath, remotePath string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("could not stat %v: %v", localPath, err)
	}

	destDir := path.Dir(remotePath)
	destName := path.Base(remotePath)

	reader, writer := io.Pipe()
	// an early exec failure must unblock the archiving goroutine
	defer reader.Close()
	go func() {
		writer.CloseWithError(makeTar(localPath, destName, info, writer))
	}()

	command := []string{"tar", "-xmf", "-", "-C", destDir}
	if err := a.execStreams(ctx, namespace, pod, container, command, reader, nil); err != nil {
		return fmt.Errorf("could not copy %v to %v:%v: %v", localPath, pod, remotePath, err)
	}

	return nil
}

// CopyFromPod transfers a remote file or directory out of the pod into
// localPath. The remote side archives into the exec's stdout and the local
// side extracts the stream. An empty container selects the pod's default
// container.
func (a *Adapter) CopyFromPod(ctx context.Context, namespace, pod, container, remotePath, localPath string) error {
	reader, writer := io.Pipe()
	// an early extraction failure must unblock the exec goroutine
	defer reader.Close()

	command := []string{"tar", "cf", "-", "-C", path.Dir(remotePath), path.Base(remotePath)}
	go func() {
		writer.CloseWithError(a.execStreams(ctx, namespace, pod, container, command, nil, writer))
	}()

	if err := untar(reader, path.Base(remotePath), localPath); err != nil {
		return fmt.Errorf("could not copy %v:%v to %v: %v", pod, remotePath, localPath, err)
	}

	return nil
}

// makeTar archives the file or directory at srcPath into w under destName.
func makeTar(srcPath, destName string, info os.FileInfo, w io.Writer) error {
	tw := tar.NewWriter(w)
	defer tw.Close()

	if !info.IsDir() {
		return tarFile(tw, srcPath, destName, info)
	}

	return filepath.Walk(srcPath, func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcPath, file)
		if err != nil {
			return err
		}
		name := path.Join(destName, filepath.ToSlash(rel))

		if fi.IsDir() {
			header := &tar.Header{
				Name:     name + "/",
				Mode:     int64(fi.Mode().Perm()),
				Typeflag: tar.TypeDir,
				ModTime:  fi.ModTime(),
			}
			return tw.WriteHeader(header)
		}

		return tarFile(tw, file, name, fi)
	})
}

// tarFile writes a single regular file entry to the archive.
func tarFile(tw *tar.Writer, file, name string, fi os.FileInfo) error {
	header := &tar.Header{
		Name:    name,
		Mode:    int64(fi.Mode().Perm()),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// untar extracts a tar stream rooted at prefix into localPath. An archive
// containing a single file lands at localPath itself; a directory archive is
// recreated beneath it. Entries that escape the prefix are rejected.
func untar(r io.Reader, prefix, localPath string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		name := path.Clean(header.Name)
		if name != prefix && !strings.HasPrefix(name, prefix+"/") {
			return fmt.Errorf("archive entry %q escapes %q", header.Name, prefix)
		}

		dest := localPath
		if name != prefix {
			dest = filepath.Join(localPath, filepath.FromSlash(strings.TrimPrefix(name, prefix+"/")))
		}

		if header.Typeflag == tar.TypeDir {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}

		f, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(header.Mode).Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, tr); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
}
