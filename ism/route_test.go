package ism_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/interchain-deployments-framework/ism"
)

func Test_Route(t *testing.T) {
	t.Parallel()

	betaArm := multisig("v1")
	configs := map[string]*ism.Config{
		"alpha": {
			Type: ism.ModuleRouting,
			Domains: map[string]*ism.Config{
				"beta":  betaArm,
				"gamma": {Type: ism.ModuleDefaultReference, Origin: "delta"},
			},
		},
		"delta": multisig("v2"),
	}

	// Direct arm
	got, err := ism.Route(configs, "alpha", "beta")
	require.NoError(t, err)
	assert.Same(t, betaArm, got)

	// Arm that resolves through a default reference
	got, err = ism.Route(configs, "alpha", "gamma")
	require.NoError(t, err)
	assert.Same(t, configs["delta"], got)

	// Non-routing root applies to every origin
	got, err = ism.Route(configs, "delta", "anything")
	require.NoError(t, err)
	assert.Same(t, configs["delta"], got)
}

func Test_Route_Errors(t *testing.T) {
	t.Parallel()

	configs := map[string]*ism.Config{
		"alpha": {
			Type:    ism.ModuleRouting,
			Domains: map[string]*ism.Config{"beta": multisig("v1")},
		},
		"loopy": {Type: ism.ModuleDefaultReference, Origin: "loopy"},
		"ghostref": {
			Type: ism.ModuleDefaultReference, Origin: "ghost",
		},
	}

	_, err := ism.Route(configs, "alpha", "gamma")
	require.ErrorIs(t, err, ism.ErrNoRoute)

	_, err = ism.Route(configs, "missing", "beta")
	require.ErrorIs(t, err, ism.ErrMissingChainConfig)

	_, err = ism.Route(configs, "ghostref", "beta")
	require.ErrorIs(t, err, ism.ErrMissingChainConfig)
	assert.ErrorContains(t, err, `references "ghost"`)

	// A self-referencing default configuration terminates instead of spinning
	_, err = ism.Route(configs, "loopy", "beta")
	require.ErrorIs(t, err, ism.ErrNoRoute)
	assert.ErrorContains(t, err, "reference cycle")
}
