package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/accumulator"
	"funcmetrics/internal/engine/function"
	"funcmetrics/internal/engine/metric"
	"funcmetrics/internal/engine/syntax"
)

// fakeSource maps a path to the functions it declares. A function declaration is
// "Class.name" or "name".
type fakeSource struct {
	mu        sync.Mutex
	files     map[string][]string
	parseErr  map[string]error
	extractEr map[string]error
	parsed    []string
}

func (f *fakeSource) Parse(path string) (*syntax.Tree, error) {
	f.mu.Lock()
	f.parsed = append(f.parsed, path)
	f.mu.Unlock()
	if err := f.parseErr[path]; err != nil {
		return nil, err
	}
	if _, ok := f.files[path]; !ok {
		return nil, errors.New(errors.CodeIO, "no such file")
	}
	return &syntax.Tree{Path: path, Language: "python", Root: syntax.Branch("module", syntax.CategoryOther)}, nil
}

func (f *fakeSource) Extract(tree *syntax.Tree) ([]function.Function, error) {
	if err := f.extractEr[tree.Path]; err != nil {
		return nil, err
	}
	var out []function.Function
	for i, decl := range f.files[tree.Path] {
		fn := function.Function{Name: decl, Filename: tree.Path, Line: i + 1}
		if class, name, ok := strings.Cut(decl, "."); ok {
			fn.ClassName, fn.Name = class, name
		}
		fn.Parameters = make([]string, len(fn.Name))
		out = append(out, fn)
	}
	return out, nil
}

func testCatalog(t *testing.T) *metric.Catalog {
	t.Helper()
	catalog, err := metric.DefaultRegistry().Catalog(metric.NamingStyleName, metric.ParametersCountName)
	require.NoError(t, err)
	return catalog
}

func qualifiedNames(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Function.QualifiedName())
	}
	return out
}

func twoFiles() *fakeSource {
	return &fakeSource{files: map[string][]string{
		"a.py": {"top", "Shape.area", "Shape.perimeter", "helper"},
		"b.py": {"Circle.radius", "main"},
	}}
}

func TestAnalyseFunctionsOrder(t *testing.T) {
	src := twoFiles()
	analyzer := NewAnalyzer(src, src, Options{})

	entries, err := analyzer.AnalyseFunctions(context.Background(), []string{"b.py", "a.py"}, testCatalog(t))
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Circle.radius", "main", "top", "Shape.area", "Shape.perimeter", "helper"},
		qualifiedNames(entries))

	res, ok := entries[0].Results.Get(metric.ParametersCountName)
	require.True(t, ok)
	assert.Equal(t, metric.Int(len("radius")), res.Value)
	assert.Equal(t, []string{metric.NamingStyleName, metric.ParametersCountName}, entries[0].Results.Names())
}

func TestAnalyseFunctionsNoDeduplication(t *testing.T) {
	src := &fakeSource{files: map[string][]string{"x.py": {"same"}, "y.py": {"same"}}}
	entries, err := NewAnalyzer(src, src, Options{}).AnalyseFunctions(context.Background(), []string{"x.py", "y.py", "x.py"}, testCatalog(t))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestAnalyseFunctionsIsAtomic(t *testing.T) {
	src := twoFiles()
	src.files["c.py"] = []string{"later"}
	src.parseErr = map[string]error{"b.py": errors.New(errors.CodeSyntax, "bad token")}
	src.extractEr = map[string]error{"c.py": stderrors.New("boom")}

	for _, workers := range []int{0, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			entries, err := NewAnalyzer(src, src, Options{Workers: workers}).
				AnalyseFunctions(context.Background(), []string{"a.py", "b.py", "c.py"}, testCatalog(t))
			require.Error(t, err)
			assert.Nil(t, entries)
			assert.True(t, errors.IsCode(err, errors.CodeSyntax))

			var de *errors.DomainError
			require.True(t, stderrors.As(err, &de))
			assert.Equal(t, "b.py", de.Context[errors.CtxPath])
			assert.Equal(t, StageParse, de.Context[errors.CtxStage])
		})
	}
}

func TestAnalyseFunctionsExtractFailureCarriesStage(t *testing.T) {
	src := twoFiles()
	src.extractEr = map[string]error{"a.py": stderrors.New("boom")}

	_, err := NewAnalyzer(src, src, Options{}).AnalyseFunctions(context.Background(), []string{"a.py", "b.py"}, testCatalog(t))
	require.Error(t, err)
	var de *errors.DomainError
	require.True(t, stderrors.As(err, &de))
	assert.Equal(t, "a.py", de.Context[errors.CtxPath])
	assert.Equal(t, StageExtract, de.Context[errors.CtxStage])
	assert.Contains(t, err.Error(), "boom")
}

func TestParallelMatchesSequential(t *testing.T) {
	src := &fakeSource{files: map[string][]string{}}
	var files []string
	for i := 0; i < 40; i++ {
		path := fmt.Sprintf("pkg/mod_%02d.py", i)
		files = append(files, path)
		src.files[path] = []string{fmt.Sprintf("f%d", i), fmt.Sprintf("C%d.m", i), fmt.Sprintf("g%d", i)}
	}
	catalog := testCatalog(t)

	sequential, err := NewAnalyzer(src, src, Options{Workers: 1}).AnalyseFunctions(context.Background(), files, catalog)
	require.NoError(t, err)
	parallel, err := NewAnalyzer(src, src, Options{Workers: 8}).AnalyseFunctions(context.Background(), files, catalog)
	require.NoError(t, err)

	assert.Equal(t, qualifiedNames(sequential), qualifiedNames(parallel))
	assert.Equal(t, SplitByFiles(sequential)[7][0].Function.Filename, SplitByFiles(parallel)[7][0].Function.Filename)
}

func TestAnalyseFunctionsCancelled(t *testing.T) {
	src := twoFiles()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAnalyzer(src, src, Options{}).AnalyseFunctions(ctx, []string{"a.py"}, testCatalog(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAccumulateFunctionAnalysis(t *testing.T) {
	src := twoFiles()
	entries, err := NewAnalyzer(src, src, Options{}).AnalyseFunctions(context.Background(), []string{"a.py", "b.py"}, testCatalog(t))
	require.NoError(t, err)

	set := accumulator.NewSet()
	require.NoError(t, set.Register(metric.NamingStyleName, accumulator.NewCategorical()))
	require.NoError(t, set.Register(metric.ParametersCountName, accumulator.NewSumAverage()))

	require.NoError(t, AccumulateFunctionAnalysis(entries, set))

	acc, err := set.Get(metric.ParametersCountName)
	require.NoError(t, err)
	assert.Equal(t, accumulator.StateAccumulating, acc.State(), "accumulation must not finalize")

	set.Finalize()
	sa, err := acc.(*accumulator.SumAverageAccumulator).Get()
	require.NoError(t, err)
	want := len("top") + len("area") + len("perimeter") + len("helper") + len("radius") + len("main")
	assert.Equal(t, metric.Int(want), sa.Sum)
}

func TestAccumulateFunctionAnalysisRejectsMismatchedStrategy(t *testing.T) {
	src := twoFiles()
	entries, err := NewAnalyzer(src, src, Options{}).AnalyseFunctions(context.Background(), []string{"a.py"}, testCatalog(t))
	require.NoError(t, err)

	set := accumulator.NewSet()
	require.NoError(t, set.Register(metric.NamingStyleName, accumulator.NewAverage()))
	err = AccumulateFunctionAnalysis(entries, set)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}
