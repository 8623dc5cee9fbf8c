package kubernetes

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
)

// fakeExecutor stands in for the SPDY executor. It runs an optional script
// against the stream options it is handed and closes done when the stream
// call returns.
type fakeExecutor struct {
	url  *url.URL
	run  func(remotecommand.StreamOptions) error
	done chan struct{}
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{done: make(chan struct{})}
}

func (f *fakeExecutor) Stream(opts remotecommand.StreamOptions) error {
	return f.StreamWithContext(context.Background(), opts)
}

func (f *fakeExecutor) StreamWithContext(ctx context.Context, opts remotecommand.StreamOptions) error {
	defer close(f.done)
	if f.run != nil {
		return f.run(opts)
	}
	return nil
}

// newFakeExecAdapter builds an adapter whose exec requests resolve against a
// real clientset, so the request URL is the one production would dial, but
// whose streams run through the fake executor.
func newFakeExecAdapter(t *testing.T, fake *fakeExecutor) *Adapter {
	t.Helper()

	config := &rest.Config{Host: "http://127.0.0.1"}
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		t.Fatalf("setup failed, could not create clientset: %v", err)
	}

	return &Adapter{
		clientset: clientset,
		config:    config,
		newExecutor: func(config *rest.Config, method string, u *url.URL) (remotecommand.Executor, error) {
			fake.url = u
			return fake, nil
		},
	}
}

func TestExecSeparatesOutputStreams(t *testing.T) {
	fake := newFakeExecutor()
	fake.run = func(opts remotecommand.StreamOptions) error {
		if opts.Stdout == opts.Stderr {
			t.Error("stdout and stderr share a writer")
		}

		// the stream protocol writes the two streams from separate goroutines
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			io.WriteString(opts.Stdout, "report generated\n")
		}()
		go func() {
			defer wg.Done()
			io.WriteString(opts.Stderr, "WARN slow sampler\n")
		}()
		wg.Wait()
		return nil
	}

	a := newFakeExecAdapter(t, fake)
	output, err := a.Exec(context.Background(), "perf", "jmeter-master-0", "", []string{"sh", "-c", "generate-report"}, nil)
	if err != nil {
		t.Fatalf("exec returned unexpected error: %v", err)
	}

	if string(output) != "report generated\nWARN slow sampler\n" {
		t.Errorf("combined output was %q, expected stdout then stderr", output)
	}
}

func TestExecAddressesContainer(t *testing.T) {
	fake := newFakeExecutor()
	a := newFakeExecAdapter(t, fake)

	if _, err := a.Exec(context.Background(), "perf", "jmeter-master-0", "jmeter", []string{"ls"}, nil); err != nil {
		t.Fatalf("exec returned unexpected error: %v", err)
	}

	query := fake.url.Query()
	if got := query.Get("container"); got != "jmeter" {
		t.Errorf("request addressed container %q, expected jmeter", got)
	}
	if command := query["command"]; len(command) != 1 || command[0] != "ls" {
		t.Errorf("request carried command %v, expected [ls]", command)
	}
}

func TestCopyToPodStreamsArchive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "spike.jmx")
	if err := os.WriteFile(src, []byte("<jmeterTestPlan/>"), 0644); err != nil {
		t.Fatalf("setup failed, could not write test plan: %v", err)
	}

	fake := newFakeExecutor()
	var received bytes.Buffer
	fake.run = func(opts remotecommand.StreamOptions) error {
		_, err := io.Copy(&received, opts.Stdin)
		return err
	}

	a := newFakeExecAdapter(t, fake)
	if err := a.CopyToPod(context.Background(), "perf", "jmeter-master-0", "jmeter", src, "/jmeter/spike.jmx"); err != nil {
		t.Fatalf("copy returned unexpected error: %v", err)
	}

	query := fake.url.Query()
	if got := query.Get("container"); got != "jmeter" {
		t.Errorf("request addressed container %q, expected jmeter", got)
	}
	expected := []string{"tar", "-xmf", "-", "-C", "/jmeter"}
	command := query["command"]
	if len(command) != len(expected) {
		t.Fatalf("request carried command %v, expected %v", command, expected)
	}
	for i, arg := range expected {
		if command[i] != arg {
			t.Errorf("command argument %v was %q, expected %q", i, command[i], arg)
		}
	}

	tr := tar.NewReader(&received)
	header, err := tr.Next()
	if err != nil {
		t.Fatalf("stdin did not carry a tar stream: %v", err)
	}
	if header.Name != "spike.jmx" {
		t.Errorf("archive entry was %q, expected spike.jmx", header.Name)
	}
	data, err := io.ReadAll(tr)
	if err != nil {
		t.Fatalf("could not read archive entry: %v", err)
	}
	if string(data) != "<jmeterTestPlan/>" {
		t.Errorf("archive entry held %q", data)
	}
}

func TestCopyFromPodExtractsArchive(t *testing.T) {
	payload := []byte("1714564800,200,OK\n")

	fake := newFakeExecutor()
	fake.run = func(opts remotecommand.StreamOptions) error {
		tw := tar.NewWriter(opts.Stdout)
		if err := tw.WriteHeader(&tar.Header{Name: "results.log", Mode: 0644, Size: int64(len(payload))}); err != nil {
			return err
		}
		if _, err := tw.Write(payload); err != nil {
			return err
		}
		return tw.Close()
	}

	a := newFakeExecAdapter(t, fake)
	dest := filepath.Join(t.TempDir(), "results.log")
	if err := a.CopyFromPod(context.Background(), "perf", "jmeter-master-0", "", "/jmeter/results.log", dest); err != nil {
		t.Fatalf("copy returned unexpected error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("could not read extracted file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("extracted contents were %q, expected %q", data, payload)
	}
}

func TestCopyFromPodUnblocksExecOnBadArchive(t *testing.T) {
	fake := newFakeExecutor()
	fake.run = func(opts remotecommand.StreamOptions) error {
		tw := tar.NewWriter(opts.Stdout)
		payload := []byte("owned")
		if err := tw.WriteHeader(&tar.Header{Name: "../evil", Mode: 0644, Size: int64(len(payload))}); err != nil {
			return err
		}
		if _, err := tw.Write(payload); err != nil {
			return err
		}
		return tw.Close()
	}

	a := newFakeExecAdapter(t, fake)
	err := a.CopyFromPod(context.Background(), "perf", "jmeter-master-0", "", "/jmeter/report", filepath.Join(t.TempDir(), "report"))
	if err == nil {
		t.Fatal("copy accepted an archive escaping its prefix")
	}

	// the exec goroutine must not stay blocked on the abandoned pipe
	select {
	case <-fake.done:
	case <-time.After(5 * time.Second):
		t.Fatal("exec stream still blocked after the copy returned")
	}
}
