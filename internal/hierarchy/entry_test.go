package hierarchy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineBasic(t *testing.T) {
	e, err := ParseLine(`100 {"type":"locality","name":"Москва","address":{"country":"Россия"}}`)
	require.NoError(t, err)
	assert.Equal(t, GeoObjectID(100), e.ID)
	assert.Equal(t, Kind("locality"), e.Kind)
	assert.Equal(t, "Москва", e.Name)
	assert.Equal(t, "Россия", e.Address["country"])
	assert.JSONEq(t, `{"type":"locality","name":"Москва","address":{"country":"Россия"}}`, string(e.Raw))
}

// 有符号落盘再按位重解释：-1 必须得到最大无符号值
func TestParseLineSignedReinterpret(t *testing.T) {
	e, err := ParseLine(`-1 {"type":"street"}`)
	require.NoError(t, err)
	assert.Equal(t, GeoObjectID(math.MaxUint64), e.ID)

	e, err = ParseLine(`-9223372036854775808 {"type":"street"}`)
	require.NoError(t, err)
	assert.Equal(t, GeoObjectID(1<<63), e.ID)

	// 原生无符号才接受的形式必须被拒绝
	_, err = ParseLine(`18446744073709551615 {"type":"street"}`)
	assert.ErrorIs(t, err, ErrBadID)
}

func TestParseLineBadID(t *testing.T) {
	for _, line := range []string{
		"garbage",
		"notanumber {}",
		" {}",
		"12.5 {}",
	} {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrBadID, "line %q", line)
	}
}

func TestParseLineBadPayload(t *testing.T) {
	_, err := ParseLine(`42 not-json`)
	assert.ErrorIs(t, err, ErrBadJSON)
	_, err = ParseLine(`42 {"type":`)
	assert.ErrorIs(t, err, ErrBadJSON)
}

// 哨兵判别值 "count" 与缺失/清空的 type 均归一为 KindNone：解析成功但非真实记录
func TestParseLineSentinelKind(t *testing.T) {
	for _, line := range []string{
		`7 {"type":"count"}`,
		`7 {}`,
		`7 {"type":""}`,
	} {
		e, err := ParseLine(line)
		require.NoError(t, err, "line %q", line)
		assert.Equal(t, KindNone, e.Kind, "line %q", line)
	}
}

func TestStatsSnapshotExact(t *testing.T) {
	var s ParsingStats
	for i := 0; i < 5; i++ {
		s.addLoaded()
	}
	s.addBadID()
	s.addBadJSON()
	s.addBadJSON()
	snap := s.Snapshot()
	assert.Equal(t, StatsSnapshot{NumLoaded: 5, BadIDs: 1, BadJSONs: 2}, snap)
}
