package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/reefgo/server/internal/world"
)

type AgentRepo struct {
	db *DB
}

func NewAgentRepo(db *DB) *AgentRepo {
	return &AgentRepo{db: db}
}

// Upsert writes the full agent row, JSON-encoding the nested fields.
func (r *AgentRepo) Upsert(ctx context.Context, a *world.Agent) error {
	visited := make([]string, 0, len(a.VisitedZones))
	for z := range a.VisitedZones {
		visited = append(visited, z)
	}
	sort.Strings(visited)
	visitedJSON, err := json.Marshal(visited)
	if err != nil {
		return fmt.Errorf("marshal visited zones: %w", err)
	}
	equippedJSON, err := json.Marshal(a.Equipped)
	if err != nil {
		return fmt.Errorf("marshal equipment: %w", err)
	}
	buffsJSON, err := json.Marshal(a.Buffs)
	if err != nil {
		return fmt.Errorf("marshal buffs: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO agents (
			id, wallet, name, api_key_hash, location,
			hp, max_hp, energy, max_energy,
			level, xp, shells, reputation, deaths,
			is_alive, is_hidden, pvp_flagged_until,
			visited_zones, faction, equipped,
			inventory_slots, vault_slots, buffs, last_action_tick
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,
			$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24
		)
		ON CONFLICT (id) DO UPDATE SET
			location = EXCLUDED.location,
			hp = EXCLUDED.hp, max_hp = EXCLUDED.max_hp,
			energy = EXCLUDED.energy, max_energy = EXCLUDED.max_energy,
			level = EXCLUDED.level, xp = EXCLUDED.xp,
			shells = EXCLUDED.shells, reputation = EXCLUDED.reputation,
			deaths = EXCLUDED.deaths,
			is_alive = EXCLUDED.is_alive, is_hidden = EXCLUDED.is_hidden,
			pvp_flagged_until = EXCLUDED.pvp_flagged_until,
			visited_zones = EXCLUDED.visited_zones,
			faction = EXCLUDED.faction, equipped = EXCLUDED.equipped,
			inventory_slots = EXCLUDED.inventory_slots,
			vault_slots = EXCLUDED.vault_slots,
			buffs = EXCLUDED.buffs,
			last_action_tick = EXCLUDED.last_action_tick,
			updated_at = NOW()`,
		a.ID, a.Wallet, a.Name, a.APIKeyHash, a.Location,
		a.HP, a.MaxHP, a.Energy, a.MaxEnergy,
		a.Level, a.XP, a.Shells, a.Reputation, a.Deaths,
		a.IsAlive, a.IsHidden, a.PvPFlaggedUntil,
		visitedJSON, a.Faction, equippedJSON,
		a.InventorySlots, a.VaultSlots, buffsJSON, a.LastActionTick,
	)
	return err
}

// LoadAll returns every agent row.
func (r *AgentRepo) LoadAll(ctx context.Context) ([]*world.Agent, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, wallet, name, api_key_hash, location,
		        hp, max_hp, energy, max_energy,
		        level, xp, shells, reputation, deaths,
		        is_alive, is_hidden, pvp_flagged_until,
		        visited_zones, faction, equipped,
		        inventory_slots, vault_slots, buffs, last_action_tick
		 FROM agents ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func scanAgent(row pgx.Row) (*world.Agent, error) {
	a := &world.Agent{}
	var visitedJSON, equippedJSON, buffsJSON []byte
	if err := row.Scan(
		&a.ID, &a.Wallet, &a.Name, &a.APIKeyHash, &a.Location,
		&a.HP, &a.MaxHP, &a.Energy, &a.MaxEnergy,
		&a.Level, &a.XP, &a.Shells, &a.Reputation, &a.Deaths,
		&a.IsAlive, &a.IsHidden, &a.PvPFlaggedUntil,
		&visitedJSON, &a.Faction, &equippedJSON,
		&a.InventorySlots, &a.VaultSlots, &buffsJSON, &a.LastActionTick,
	); err != nil {
		return nil, err
	}
	var visited []string
	if err := json.Unmarshal(visitedJSON, &visited); err != nil {
		return nil, fmt.Errorf("unmarshal visited zones: %w", err)
	}
	a.VisitedZones = make(map[string]bool, len(visited))
	for _, z := range visited {
		a.VisitedZones[z] = true
	}
	if err := json.Unmarshal(equippedJSON, &a.Equipped); err != nil {
		return nil, fmt.Errorf("unmarshal equipment: %w", err)
	}
	if err := json.Unmarshal(buffsJSON, &a.Buffs); err != nil {
		return nil, fmt.Errorf("unmarshal buffs: %w", err)
	}
	if a.Buffs == nil {
		a.Buffs = make(map[string]int64)
	}
	return a, nil
}

// WalletExists reports whether a wallet already entered the reef.
func (r *AgentRepo) WalletExists(ctx context.Context, wallet string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM agents WHERE wallet = $1)`, wallet,
	).Scan(&exists)
	return exists, err
}

// SaveInventory replaces the agent's inventory rows in one transaction.
func (r *AgentRepo) SaveInventory(ctx context.Context, agentID string, inv map[string]int) error {
	return r.saveStacks(ctx, "inventories", agentID, inv)
}

// SaveVault replaces the agent's vault rows in one transaction.
func (r *AgentRepo) SaveVault(ctx context.Context, agentID string, vault map[string]int) error {
	return r.saveStacks(ctx, "vaults", agentID, vault)
}

func (r *AgentRepo) saveStacks(ctx context.Context, table, agentID string, stacks map[string]int) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE agent_id = $1`, table), agentID); err != nil {
		return err
	}
	for resource, qty := range stacks {
		if qty <= 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (agent_id, resource, quantity) VALUES ($1,$2,$3)`, table),
			agentID, resource, qty); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// LoadInventories returns all inventory stacks keyed by agent id.
func (r *AgentRepo) LoadInventories(ctx context.Context) (map[string]map[string]int, error) {
	return r.loadStacks(ctx, "inventories")
}

// LoadVaults returns all vault stacks keyed by agent id.
func (r *AgentRepo) LoadVaults(ctx context.Context) (map[string]map[string]int, error) {
	return r.loadStacks(ctx, "vaults")
}

func (r *AgentRepo) loadStacks(ctx context.Context, table string) (map[string]map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx,
		fmt.Sprintf(`SELECT agent_id, resource, quantity FROM %s`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]map[string]int)
	for rows.Next() {
		var agentID, resource string
		var qty int
		if err := rows.Scan(&agentID, &resource, &qty); err != nil {
			return nil, err
		}
		m := result[agentID]
		if m == nil {
			m = make(map[string]int)
			result[agentID] = m
		}
		m[resource] = qty
	}
	return result, rows.Err()
}

// LoadByWallet returns the agent with the given wallet, or nil.
func (r *AgentRepo) LoadByWallet(ctx context.Context, wallet string) (*world.Agent, error) {
	a, err := scanAgent(r.db.Pool.QueryRow(ctx,
		`SELECT id, wallet, name, api_key_hash, location,
		        hp, max_hp, energy, max_energy,
		        level, xp, shells, reputation, deaths,
		        is_alive, is_hidden, pvp_flagged_until,
		        visited_zones, faction, equipped,
		        inventory_slots, vault_slots, buffs, last_action_tick
		 FROM agents WHERE wallet = $1`, wallet))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
