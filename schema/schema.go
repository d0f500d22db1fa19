// Package schema holds the declarative slash-command types exchanged with the
// chat platform: the registration payload produced by generated CommandData
// methods and the option values consumed by generated parsers.
package schema

import "fmt"

// Command is the registration payload for one slash command or subcommand group.
type Command struct {
	// Name is the invocation name, 1-32 characters.
	Name string `json:"name" yaml:"name"`
	// Description is the help text shown by the platform, 1-100 characters.
	Description string `json:"description" yaml:"description"`
	// Options lists the command's typed inputs, or its subcommands for a group.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
	// DefaultPermission controls whether the command is enabled by default.
	DefaultPermission bool `json:"default_permission" yaml:"default_permission"`
}

// Option is one named, typed input of a command. For subcommand groups the
// option is itself of type OptionSubCommand and carries nested Options.
type Option struct {
	Type        OptionType `json:"type" yaml:"type"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option   `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionType is the platform's wire discriminator for option kinds.
type OptionType int

const (
	OptionSubCommand      OptionType = 1
	OptionSubCommandGroup OptionType = 2
	OptionString          OptionType = 3
	OptionInteger         OptionType = 4
	OptionBoolean         OptionType = 5
	OptionUser            OptionType = 6
	OptionChannel         OptionType = 7
	OptionRole            OptionType = 8
	OptionMentionable     OptionType = 9
	OptionNumber          OptionType = 10
	OptionAttachment      OptionType = 11
)

func (t OptionType) String() string {
	switch t {
	case OptionSubCommand:
		return "SUB_COMMAND"
	case OptionSubCommandGroup:
		return "SUB_COMMAND_GROUP"
	case OptionString:
		return "STRING"
	case OptionInteger:
		return "INTEGER"
	case OptionBoolean:
		return "BOOLEAN"
	case OptionUser:
		return "USER"
	case OptionChannel:
		return "CHANNEL"
	case OptionRole:
		return "ROLE"
	case OptionMentionable:
		return "MENTIONABLE"
	case OptionNumber:
		return "NUMBER"
	case OptionAttachment:
		return "ATTACHMENT"
	default:
		return fmt.Sprintf("OptionType(%d)", int(t))
	}
}

// OptionValue is one named value received at invocation time, before it is
// converted into the matching field of a generated command struct.
type OptionValue struct {
	Name  string
	Type  OptionType
	Value any
}

// Snowflake is the platform's 64-bit entity identifier.
type Snowflake uint64

func (s Snowflake) String() string { return fmt.Sprintf("%d", uint64(s)) }

// Resolved entity references. Invocation payloads resolve these server side;
// only the fields generated parsers need are modelled here.

// User is a resolved user reference.
type User struct {
	ID       Snowflake `json:"id" yaml:"id"`
	Username string    `json:"username" yaml:"username"`
	Bot      bool      `json:"bot,omitempty" yaml:"bot,omitempty"`
}

// Channel is a resolved channel reference.
type Channel struct {
	ID   Snowflake `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
}

// Role is a resolved role reference.
type Role struct {
	ID   Snowflake `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
}

// Mentionable is a resolved reference that may be either a user or a role.
type Mentionable struct {
	ID     Snowflake `json:"id" yaml:"id"`
	IsRole bool      `json:"is_role,omitempty" yaml:"is_role,omitempty"`
}

// Attachment is a resolved file attachment reference.
type Attachment struct {
	ID       Snowflake `json:"id" yaml:"id"`
	Filename string    `json:"filename" yaml:"filename"`
	URL      string    `json:"url" yaml:"url"`
}
