package repositories

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMatch_Both(t *testing.T) {
	query, args, err := sq.Select("id").
		From("users").
		Where(contactMatch("https://steamcommunity.com/id/p", "player#0001")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "steam_profile_url = $1")
	assert.Contains(t, query, " OR ")
	assert.Contains(t, query, "discord_handle = $2")
	assert.Equal(t, []interface{}{"https://steamcommunity.com/id/p", "player#0001"}, args)
}

// TestContactMatch_SteamOnly: отсутствующий контакт не попадает в условие,
// иначе запись находилась бы по пустой строке.
func TestContactMatch_SteamOnly(t *testing.T) {
	query, args, err := sq.Select("id").
		From("users").
		Where(contactMatch("https://steamcommunity.com/id/p", "")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "discord_handle")
	assert.Equal(t, []interface{}{"https://steamcommunity.com/id/p"}, args)
}

func TestContactMatch_DiscordOnly(t *testing.T) {
	query, _, err := sq.Select("id").
		From("users").
		Where(contactMatch("", "player#0001")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "steam_profile_url")
	assert.Contains(t, query, "discord_handle = $1")
}
