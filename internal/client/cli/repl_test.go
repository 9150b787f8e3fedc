package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) SignUp(ctx context.Context) error {
	f.calls = append(f.calls, "signup")
	return nil
}
func (f *fakeExec) SignIn(ctx context.Context) error {
	f.calls = append(f.calls, "signin")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) GoogleSignIn(ctx context.Context) error {
	f.calls = append(f.calls, "google")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) SignOut(ctx context.Context) error {
	f.calls = append(f.calls, "signout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) NewListing(ctx context.Context) error {
	f.calls = append(f.calls, "new")
	return nil
}
func (f *fakeExec) ShowListing(ctx context.Context) error {
	f.calls = append(f.calls, "show")
	return nil
}

func TestRunREPL_SignInFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"signin",
		"help",
		"new",
		"show",
		"signout",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"signin", "new", "show", "signout"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_UnknownAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("nonsense\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
