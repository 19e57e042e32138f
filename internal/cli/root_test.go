package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/agreementchain/agreements/internal/app"
	"github.com/agreementchain/agreements/internal/apptest"
	"github.com/agreementchain/agreements/pkg/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, f *apptest.Fixture, args ...string) (string, error) {
	t.Helper()

	initApp := func(ctx context.Context, envpath string) (*app.App, error) {
		return f.App, nil
	}

	var out bytes.Buffer
	cmd := NewRootCmd(initApp)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReadCommands(t *testing.T) {
	f := apptest.New(t, false)
	contract := apptest.Contract.Hex()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"dashboard", []string{"dashboard", apptest.Alice.Hex()}, []string{"Lease", "Active"}},
		{"show", []string{"show", contract}, []string{"Lease", "Office lease", apptest.Bob.Hex(), "Country"}},
		{"requests", []string{"requests", contract, "--sort", "desc"}, []string{"Add", apptest.Bob.Hex()}},
		{"request voters", []string{"requests", contract, apptest.AddID.Hex()}, []string{apptest.Alice.Hex()}},
		{"conditions", []string{"conditions", contract}, []string{"Term", "12 months"}},
		{"condition voters", []string{"conditions", contract, "Term"}, []string{apptest.Bob.Hex()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, f, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	f := apptest.New(t, false)

	out, err := run(t, f, "show", apptest.Contract.Hex(), "--json")
	require.NoError(t, err)

	var v views.ContractView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Lease", v.Title)
}

func TestWriteCommands(t *testing.T) {
	contract := apptest.Contract.Hex()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"vote", []string{"vote", contract, apptest.AddID.Hex(), "approve"}, "Voted Successfully"},
		{"state", []string{"state", contract, "pause"}, "Pause Request added successfully."},
		{"stakeholder add", []string{"stakeholder", "add", contract, apptest.Bob.Hex()}, "Stakeholder Request added successfully."},
		{"condition add", []string{"condition", "add", contract, "Term", "12 months"}, "Condition Request added Successfully"},
		{"condition remove", []string{"condition", "remove", contract, "Country"}, "Condition Remove request added successfully"},
		{"condition vote", []string{"condition", "vote", contract, apptest.TermID.Hex(), "reject"}, "Voted Successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the command closes the app, and with it the send queue
			f := apptest.New(t, true)

			out, err := run(t, f, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Len(t, f.EVM.Sent, 1)
		})
	}
}

func TestWriteFailures(t *testing.T) {
	f := apptest.New(t, false)
	contract := apptest.Contract.Hex()

	out, err := run(t, f, "create", "--title", "Lease")
	require.Error(t, err)
	assert.Contains(t, out, "Please fill in all required fields.")

	_, err = run(t, f, "state", contract, "explode")
	require.Error(t, err)

	_, err = run(t, f, "vote", contract, apptest.AddID.Hex(), "maybe")
	require.Error(t, err)

	_, err = run(t, f, "show", "0x12")
	require.Error(t, err)
}

func TestPreparedWithoutSigner(t *testing.T) {
	f := apptest.New(t, false)

	out, err := run(t, f, "create",
		"--title", "Lease",
		"--description", "Office lease",
		"--stakeholders", apptest.Alice.Hex()+", "+apptest.Bob.Hex(),
		"--country", "BE",
		"--condition", "Term=12 months",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "PREPARED CALL")
	assert.Contains(t, out, "createAgreement")
	assert.Empty(t, f.EVM.Sent)
}

func TestVersionSkipsInit(t *testing.T) {
	initApp := func(ctx context.Context, envpath string) (*app.App, error) {
		t.Fatal("version must not build the app")
		return nil, nil
	}

	var out bytes.Buffer
	cmd := NewRootCmd(initApp)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "agreementctl version")
}

func TestParseVote(t *testing.T) {
	for in, want := range map[string]bool{"approve": true, "Reject": false, "y": true, "no": false} {
		got, err := parseVote(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := parseVote("abstain")
	require.Error(t, err)
}
