package mine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrum_TalliesByLengthAndSupport(t *testing.T) {
	sp := NewSpectrum()
	require.NoError(t, sp.Push(0))
	require.NoError(t, sp.Report(5, nil))
	require.NoError(t, sp.Push(1))
	require.NoError(t, sp.Report(3, nil))
	require.NoError(t, sp.Pop(2))
	require.NoError(t, sp.Report(9, nil))

	sigs := sp.Signatures()
	require.Len(t, sigs, 3)
	assert.Equal(t, Signature{Length: 0, Support: 9, Count: 1}, sigs[0])
	assert.Equal(t, Signature{Length: 1, Support: 5, Count: 1}, sigs[1])
	assert.Equal(t, Signature{Length: 2, Support: 3, Count: 1}, sigs[2])
}

func TestTeeSink_FansOutToBoth(t *testing.T) {
	primary := &fakeSink{}
	sp := NewSpectrum()
	tee := &TeeSink{Primary: primary, Spectrum: sp}

	require.NoError(t, tee.Push(0))
	require.NoError(t, tee.Report(4, nil))
	require.NoError(t, tee.Pop(1))

	assert.Len(t, primary.reports, 1)
	assert.Equal(t, []Signature{{Length: 1, Support: 4, Count: 1}}, sp.Signatures())
}

func TestRun_WithSpectrumCollectsSignatures(t *testing.T) {
	txs := plainTxs([]ItemID{0}, []ItemID{0})
	sink := &fakeSink{}
	sp := NewSpectrum()
	tee := &TeeSink{Primary: sink, Spectrum: sp}
	e := NewEngine[ItemID](1, Options{Target: TargetAll, SMin: 1, ZMin: 0, ZMax: 10}, PlainItemOf, nil, tee)
	require.NoError(t, e.Run(txs))

	found := false
	for _, s := range sp.Signatures() {
		if s.Length == 1 && s.Support == 2 {
			found = true
		}
	}
	assert.True(t, found)
}
