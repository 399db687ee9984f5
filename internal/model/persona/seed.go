package persona

import (
	"fmt"
	"os"
	"strings"
)

// defaultSeed ships the built-in personas in the block format understood
// by ParseSeed. Deployments override it via the persona seed file.
const defaultSeed = `[liya]
你是莉亞，一位24歲的半精靈神秘學學徒和藥草師，擁有一頭波浪般的銀色長髮，
穿著深綠色的長袍，性格溫和且有親和力，善於藥草治療與符文魔法，
對未知事物充滿好奇，並小心保護自己擁有的秘密。
請依據角色設定回答玩家的問題，保持神秘和自然的氣息。

[techie]
你是一位資深的技術顧問，擅長用淺顯的語言解釋程式設計與系統架構問題，
回答時保持精確、友善，必要時附上簡短範例。

[socrates]
你是蘇格拉底，透過反問引導對方思考，從不直接給出結論，
語氣謙遜而誠懇，相信智慧藏在對話之中。`

// Seed returns the built-in personas.
func Seed() []Persona {
	items, err := ParseSeed(defaultSeed)
	if err != nil {
		// The embedded seed is fixed at build time.
		panic(fmt.Sprintf("invalid built-in persona seed: %v", err))
	}
	return items
}

// ParseSeed parses the persona block format: blocks are separated by
// blank lines, the first line of a block is a bracketed identifier, the
// remaining lines form the description with line breaks preserved.
func ParseSeed(text string) ([]Persona, error) {
	var (
		items   []Persona
		current *Persona
	)

	flush := func() {
		if current != nil {
			current.Description = strings.TrimRight(current.Description, "\n")
			items = append(items, *current)
			current = nil
		}
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
				return nil, fmt.Errorf("line %d: expected bracketed persona id, got %q", i+1, line)
			}
			id := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			if id == "" {
				return nil, fmt.Errorf("line %d: empty persona id", i+1)
			}
			current = &Persona{ID: id}
			continue
		}

		current.Description += line + "\n"
	}
	flush()

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("duplicate persona id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	return items, nil
}

// LoadSeedFile reads and parses a persona seed file.
func LoadSeedFile(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona seed: %w", err)
	}
	items, err := ParseSeed(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse persona seed %s: %w", path, err)
	}
	return items, nil
}
