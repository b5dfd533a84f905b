package commands

import "fmt"

// permissionBits maps snake_case permission names to Discord permission bits.
var permissionBits = map[string]int64{
	"create_instant_invite":    1 << 0,
	"kick_members":             1 << 1,
	"ban_members":              1 << 2,
	"administrator":            1 << 3,
	"manage_channels":          1 << 4,
	"manage_guild":             1 << 5,
	"add_reactions":            1 << 6,
	"view_audit_log":           1 << 7,
	"priority_speaker":         1 << 8,
	"stream":                   1 << 9,
	"view_channel":             1 << 10,
	"send_messages":            1 << 11,
	"send_tts_messages":        1 << 12,
	"manage_messages":          1 << 13,
	"embed_links":              1 << 14,
	"attach_files":             1 << 15,
	"read_message_history":     1 << 16,
	"mention_everyone":         1 << 17,
	"use_external_emojis":      1 << 18,
	"view_guild_insights":      1 << 19,
	"connect":                  1 << 20,
	"speak":                    1 << 21,
	"mute_members":             1 << 22,
	"deafen_members":           1 << 23,
	"move_members":             1 << 24,
	"use_voice_activation":     1 << 25,
	"change_nickname":          1 << 26,
	"manage_nicknames":         1 << 27,
	"manage_roles":             1 << 28,
	"manage_webhooks":          1 << 29,
	"manage_expressions":       1 << 30,
	"use_application_commands": 1 << 31,
	"request_to_speak":         1 << 32,
	"manage_events":            1 << 33,
	"manage_threads":           1 << 34,
	"create_public_threads":    1 << 35,
	"create_private_threads":   1 << 36,
	"use_external_stickers":    1 << 37,
	"send_messages_in_threads": 1 << 38,
	"use_embedded_activities":  1 << 39,
	"moderate_members":         1 << 40,
}

// DMPermissions is what every participant holds in a direct message channel.
var DMPermissions = mustPermissions(
	"view_channel",
	"send_messages",
	"send_tts_messages",
	"embed_links",
	"attach_files",
	"read_message_history",
	"mention_everyone",
	"add_reactions",
	"use_external_emojis",
	"use_application_commands",
)

// PermissionBits returns the combined bitset of names.
func PermissionBits(names ...string) (int64, error) {
	var bits int64
	for _, n := range names {
		b, ok := permissionBits[n]
		if !ok {
			return 0, fmt.Errorf("unknown permission %q", n)
		}
		bits |= b
	}
	return bits, nil
}

func mustPermissions(names ...string) int64 {
	bits, err := PermissionBits(names...)
	if err != nil {
		panic(err)
	}
	return bits
}

// MissingPermissions returns the names from required that held does not
// grant, in the order they were required. Administrator grants everything.
func MissingPermissions(required []string, held int64) []string {
	if held&permissionBits["administrator"] != 0 {
		return nil
	}
	var missing []string
	for _, n := range required {
		if held&permissionBits[n] == 0 {
			missing = append(missing, n)
		}
	}
	return missing
}
