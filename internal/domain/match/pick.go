package match

import (
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// PickKind tags the three shapes picks were historically persisted in. The
// schema evolved in place without a migration, so all three still occur in
// stored data and must be handled exhaustively, never coerced silently.
type PickKind string

const (
	// KindBare is a plain hero-name string with no lane or player. Bare
	// picks are kept as draft history but are excluded from every
	// player-attributed statistic: the lane is ambiguous and guessing it
	// positionally would misattribute outcomes.
	KindBare PickKind = "bare"
	// KindLocated has hero and lane but no player linkage.
	KindLocated PickKind = "located"
	// KindAttributed has hero, lane and a player name. Only attributed
	// picks may produce player-linked statistics records.
	KindAttributed PickKind = "attributed"
)

// Pick is a single draft entry for one team side.
type Pick struct {
	Kind       PickKind
	Hero       string
	Lane       Lane
	PlayerName string
}

func BarePick(hero string) Pick {
	return Pick{Kind: KindBare, Hero: hero}
}

func LocatedPick(hero string, lane Lane) Pick {
	return Pick{Kind: KindLocated, Hero: hero, Lane: lane}
}

func AttributedPick(hero string, lane Lane, playerName string) Pick {
	return Pick{Kind: KindAttributed, Hero: hero, Lane: lane, PlayerName: playerName}
}

// Attributed reports whether the pick carries a usable player linkage.
func (p Pick) Attributed() bool {
	return p.Kind == KindAttributed && p.PlayerName != ""
}

// rawPick mirrors the structured wire shape. Player appears either as a
// nested object with a name, as a plain string, or as a player_name sibling
// field, depending on when the row was written.
type rawPick struct {
	Hero       string        `json:"hero"`
	Lane       string        `json:"lane"`
	Player     rawPickPlayer `json:"player"`
	PlayerName string        `json:"player_name"`
}

type rawPickPlayer struct {
	name    string
	present bool
}

func (p *rawPickPlayer) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var name string
		if err := sonic.Unmarshal(data, &name); err != nil {
			return err
		}
		p.name = name
		p.present = true
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.name = obj.Name
	p.present = true
	return nil
}

// DecodePick parses one raw pick value into its tagged shape.
//
//   - bare string        -> KindBare (hero only)
//   - {hero, lane}       -> KindLocated
//   - {hero, lane, player | player_name} -> KindAttributed
//
// An object without a hero is rejected: there is nothing to count.
func DecodePick(data []byte) (Pick, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return Pick{}, fmt.Errorf("empty pick value")
	}

	if strings.HasPrefix(trimmed, "\"") {
		var hero string
		if err := sonic.Unmarshal(data, &hero); err != nil {
			return Pick{}, fmt.Errorf("decode bare pick: %w", err)
		}
		hero = strings.TrimSpace(hero)
		if hero == "" {
			return Pick{}, fmt.Errorf("bare pick has empty hero")
		}
		return BarePick(hero), nil
	}

	var raw rawPick
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return Pick{}, fmt.Errorf("decode structured pick: %w", err)
	}

	hero := strings.TrimSpace(raw.Hero)
	if hero == "" {
		return Pick{}, fmt.Errorf("structured pick has empty hero")
	}
	lane := strings.TrimSpace(raw.Lane)
	if lane == "" {
		// Hero-only object rows behave like legacy bare strings.
		return BarePick(hero), nil
	}

	playerName := ""
	if raw.Player.present {
		playerName = strings.TrimSpace(raw.Player.name)
	}
	if playerName == "" {
		playerName = strings.TrimSpace(raw.PlayerName)
	}

	if playerName == "" {
		return LocatedPick(hero, ParseLane(lane)), nil
	}
	return AttributedPick(hero, ParseLane(lane), playerName), nil
}

// DecodePicks parses a stored JSON array of heterogeneous pick values.
// Unparseable entries are returned separately so callers can log and skip
// them without dropping the rest of the list.
func DecodePicks(data []byte) ([]Pick, []error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var rawItems []sonicRaw
	if err := sonic.Unmarshal(data, &rawItems); err != nil {
		return nil, []error{fmt.Errorf("decode pick list: %w", err)}
	}

	picks := make([]Pick, 0, len(rawItems))
	var errs []error
	for i, item := range rawItems {
		pick, err := DecodePick(item)
		if err != nil {
			errs = append(errs, fmt.Errorf("pick %d: %w", i, err))
			continue
		}
		picks = append(picks, pick)
	}
	return picks, errs
}

type sonicRaw []byte

func (r *sonicRaw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func (r sonicRaw) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// EncodePicks writes picks back in their canonical wire shape. Bare picks
// stay bare strings so round-tripping legacy rows never invents lanes.
func EncodePicks(picks []Pick) ([]byte, error) {
	items := make([]any, 0, len(picks))
	for _, pick := range picks {
		switch pick.Kind {
		case KindBare:
			items = append(items, pick.Hero)
		case KindLocated:
			items = append(items, map[string]string{
				"hero": pick.Hero,
				"lane": string(pick.Lane),
			})
		case KindAttributed:
			items = append(items, map[string]string{
				"hero":   pick.Hero,
				"lane":   string(pick.Lane),
				"player": pick.PlayerName,
			})
		default:
			return nil, fmt.Errorf("unknown pick kind: %s", pick.Kind)
		}
	}
	encoded, err := sonic.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode pick list: %w", err)
	}
	return encoded, nil
}
