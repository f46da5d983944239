package config

const (
	delimiter = "."

	KeyPrefix = "config"

	KeySelectorPrefix     = KeyPrefix + delimiter + "selector"
	KeySelectorNumSlots   = KeySelectorPrefix + delimiter + "num_slots"
	KeySelectorHashNSlots = KeySelectorPrefix + delimiter + "hash_n_slots"

	KeyLogPrefix   = KeyPrefix + delimiter + "log"
	KeyLogLevel    = KeyLogPrefix + delimiter + "level"
	KeyLogEncoding = KeyLogPrefix + delimiter + "encoding"
)
