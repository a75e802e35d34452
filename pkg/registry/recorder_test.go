package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specscribe/core/pkg/domain"
)

func TestRecorderCapturesCallOrder(t *testing.T) {
	rec := NewRecorder("Calculator", "", "Add two numbers")

	var ran []string
	step := func(name string) Action {
		return func() error {
			ran = append(ran, name)
			return nil
		}
	}

	require.NoError(t, rec.Given("I have entered {0} into the calculator", step("given"), 1))
	require.NoError(t, rec.And("I have also entered {0} into the calculator", step("and"), 2))
	require.NoError(t, rec.When("I press add", step("when")))
	require.NoError(t, rec.Then("the result should be {0}", step("then"), 3))

	// Actions run synchronously, in registration order.
	assert.Equal(t, []string{"given", "and", "when", "then"}, ran)

	set := rec.Records()
	require.Len(t, set.Steps, 4)
	for i, s := range set.Steps {
		assert.Equal(t, i, s.Seq, "sequence numbers must be monotonic")
		assert.Equal(t, i, s.Order)
		assert.Equal(t, domain.OriginRuntime, s.Origin)
		assert.Equal(t, "Calculator", s.Feature)
		assert.Equal(t, "Add two numbers", s.Scenario)
	}
	assert.Equal(t, domain.KeywordGiven, set.Steps[0].Keyword)
	assert.Equal(t, domain.KeywordAnd, set.Steps[1].Keyword)
	assert.Equal(t, domain.KeywordWhen, set.Steps[2].Keyword)
	assert.Equal(t, domain.KeywordThen, set.Steps[3].Keyword)
}

func TestRecorderEmitsIdentityRecords(t *testing.T) {
	rec := NewRecorder("Calculator", "In order to avoid silly mistakes", "Add two numbers")
	require.NoError(t, rec.Given("something", nil))

	set := rec.Records()
	require.Len(t, set.Features, 1)
	assert.Equal(t, "Calculator", set.Features[0].Name)
	assert.Equal(t, "In order to avoid silly mistakes", set.Features[0].Narrative)
	require.Len(t, set.Scenarios, 1)
	assert.Equal(t, "Add two numbers", set.Scenarios[0].Title)
}

func TestRecorderNilActionRecordsStep(t *testing.T) {
	rec := NewRecorder("Calculator", "", "Add two numbers")
	require.NoError(t, rec.When("I press add", nil))

	set := rec.Records()
	require.Len(t, set.Steps, 1)
	assert.Equal(t, "I press add", set.Steps[0].Template)
}

func TestRecorderActionErrorPropagates(t *testing.T) {
	rec := NewRecorder("Calculator", "", "Divide by zero")
	boom := errors.New("division by zero")

	err := rec.When("I press divide", func() error { return boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// The step ran, so it stays recorded.
	assert.Len(t, rec.Records().Steps, 1)
}

func TestRecorderRejectsNestedRegistration(t *testing.T) {
	rec := NewRecorder("Calculator", "", "Add two numbers")

	var nestedErr error
	err := rec.Given("outer step", func() error {
		nestedErr = rec.And("inner step", nil)
		return nil
	})

	require.NoError(t, err)
	assert.ErrorIs(t, nestedErr, ErrNestedStep)
	assert.Len(t, rec.Records().Steps, 1, "nested step must not be recorded")
}

func TestRecorderCommitOnce(t *testing.T) {
	col := NewCollector()
	rec := NewRecorder("Calculator", "", "Add two numbers")
	require.NoError(t, rec.Given("a step", nil))

	require.NoError(t, rec.Commit(col))
	assert.ErrorIs(t, rec.Commit(col), ErrAlreadyCommitted)
	assert.ErrorIs(t, rec.Then("late step", nil), ErrAlreadyCommitted)

	set := col.Records()
	assert.Len(t, set.Steps, 1)
}

func TestRecordersAreIsolated(t *testing.T) {
	col := NewCollector()

	first := NewRecorder("Calculator", "", "Add two numbers")
	second := NewRecorder("Calculator", "", "Subtract two numbers")

	require.NoError(t, first.Given("first scenario step", nil))
	require.NoError(t, second.Given("second scenario step", nil))
	require.NoError(t, second.When("second scenario continues", nil))

	// Each recorder keeps its own counter.
	assert.Equal(t, 0, first.Records().Steps[0].Seq)
	assert.Equal(t, 0, second.Records().Steps[0].Seq)
	assert.Equal(t, 1, second.Records().Steps[1].Seq)

	require.NoError(t, first.Commit(col))
	require.NoError(t, second.Commit(col))

	set := col.Records()
	assert.Len(t, set.Scenarios, 2)
	assert.Len(t, set.Steps, 3)
}

func TestCollectorConcurrentCommits(t *testing.T) {
	col := NewCollector()

	const scenarios = 32
	var wg sync.WaitGroup
	wg.Add(scenarios)
	for i := 0; i < scenarios; i++ {
		go func(n int) {
			defer wg.Done()
			rec := NewRecorder("Concurrent", "", scenarioTitle(n))
			_ = rec.Given("step one", nil)
			_ = rec.When("step two", nil)
			_ = rec.Commit(col)
		}(i)
	}
	wg.Wait()

	set := col.Records()
	assert.Len(t, set.Scenarios, scenarios)
	assert.Len(t, set.Steps, scenarios*2)

	// Within every scenario the pair of steps must stay contiguous and
	// ordered; concurrent commits may not interleave step buffers.
	perScenario := make(map[string][]domain.StepRecord)
	for _, s := range set.Steps {
		perScenario[s.Scenario] = append(perScenario[s.Scenario], s)
	}
	for title, steps := range perScenario {
		require.Len(t, steps, 2, "scenario %s", title)
		assert.Equal(t, domain.KeywordGiven, steps[0].Keyword)
		assert.Equal(t, domain.KeywordWhen, steps[1].Keyword)
		assert.Less(t, steps[0].Seq, steps[1].Seq)
	}
}

func scenarioTitle(n int) string {
	return "scenario " + string(rune('A'+n%26)) + string(rune('a'+n/26))
}
