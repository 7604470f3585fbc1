package lang

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestParseReader_Cached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	ctx := context.Background()
	src := `struct { a = (list 1.0 2.0) }`

	first, err := ParseReader(ctx, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	first.Fields[0].Value.List[0].Number = 99

	second, err := ParseReader(ctx, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if !second.Equal(mustParse(t, src)) {
		t.Errorf("cached result modified by caller: %#v", second.Native())
	}
}

func TestParseReader_CachedError(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	ctx := context.Background()

	_, err1 := ParseReader(ctx, strings.NewReader(`struct {`))
	_, err2 := ParseReader(ctx, strings.NewReader(`struct {`))

	for _, err := range []error{err1, err2} {
		if !errors.Is(err, ErrUnexpectedEOF) {
			t.Errorf("expected ErrUnexpectedEOF, got %v", err)
		}
	}

	if err1 == err2 {
		t.Error("cached error returned without copying")
	}
}

func TestParseReader_ConstantsBypassCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	ctx := context.Background()
	seed := WithConstants(map[string]*Value{"x": NewNumber(1)})

	got, err := ParseReader(ctx, strings.NewReader(`|x|`), seed)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(NewNumber(1)) {
		t.Errorf("got %#v", got.Native())
	}

	if _, err := ParseReader(ctx, strings.NewReader(`|x|`)); !errors.Is(err, ErrUnknownConstant) {
		t.Errorf("expected ErrUnknownConstant without seed, got %v", err)
	}
}

func TestParseReader_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := ParseReader(context.Background(), iotest.ErrReader(boom))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}

	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestParseReader_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const workers = 16

	src := `set v = 'shared' struct { v = |v| }`
	want := mustParse(t, src)

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for range workers {
		wg.Go(func() {
			got, err := ParseReader(context.Background(), strings.NewReader(src))
			if err != nil {
				errs <- err

				return
			}

			if !got.Equal(want) {
				errs <- errors.New("unexpected result")
			}
		})
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestClearCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	ctx := context.Background()

	for _, src := range []string{`1.0`, `2.0`, `struct {`} {
		_, _ = ParseReader(ctx, strings.NewReader(src))
	}

	if n := CacheLen(); n != 3 {
		t.Fatalf("CacheLen() = %d, want 3", n)
	}

	ClearCache()

	if n := CacheLen(); n != 0 {
		t.Errorf("CacheLen() = %d after ClearCache, want 0", n)
	}
}
