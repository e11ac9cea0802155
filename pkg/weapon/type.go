package weapon

// Type is the inventory slot a weapon occupies.
type Type int

const (
	Primary Type = iota + 1
	Secondary
	Grenade
	Melee
)

func (t Type) String() string {
	switch t {
	case Primary:
		return "Primary"
	case Secondary:
		return "Secondary"
	case Grenade:
		return "Grenade"
	case Melee:
		return "Melee"
	}
	return "Unknown"
}

// Kind groups weapon types by the statistic screen they share.
type Kind int

const (
	GunKind Kind = iota
	GrenadeKind
	MeleeKind
)

func (t Type) Kind() Kind {
	switch t {
	case Grenade:
		return GrenadeKind
	case Melee:
		return MeleeKind
	}
	return GunKind
}

func (k Kind) String() string {
	switch k {
	case GunKind:
		return "gun"
	case GrenadeKind:
		return "grenade"
	case MeleeKind:
		return "melee"
	}
	return "unknown"
}
