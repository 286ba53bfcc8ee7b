package services

import (
	"context"
	"fmt"

	"urc/models"
)

// GetDataByRelawanBackup fetches every pengajuan and filters by relawan locally.
// It is the safety net for a server-side filter that misses matches.
func (g *Gateway) GetDataByRelawanBackup(ctx context.Context, name string) models.Envelope {
	env, _ := g.backup(ctx, name)
	return env
}

// backup returns the locally filtered envelope and whether the full dataset was usable.
func (g *Gateway) backup(ctx context.Context, name string) (models.Envelope, bool) {
	g.logger.Info("using backup method for relawan", "relawan", name)

	all, err := g.fetchAll(ctx)
	usable := err == nil
	if err != nil {
		all = models.EmptyEnvelope()
	}

	if !all.IsSuccess() || all.Data == nil {
		return models.EmptyEnvelope(), false
	}

	filtered := FilterByRelawan(all.Data, name)
	g.logger.Info("backup method result", "relawan", name, "found", len(filtered))

	return models.Envelope{
		Status:  models.StatusSuccess,
		Data:    filtered,
		Message: fmt.Sprintf("Data ditemukan: %d pengajuan (client-side filter)", len(filtered)),
	}, usable
}

// FilterByRelawan keeps records whose relawan matches name, ignoring case
// and surrounding whitespace. Records without a relawan never match.
func FilterByRelawan(records []models.Record, name string) []models.Record {
	want := models.NormalizeRelawan(name)
	filtered := []models.Record{}

	for _, record := range records {
		relawan, ok := record.Relawan()
		if !ok {
			continue
		}
		if models.NormalizeRelawan(relawan) == want {
			filtered = append(filtered, record)
		}
	}

	return filtered
}

// Resolve looks up pengajuan for a relawan in two stages: the server-side
// filter first, then the client-side filter over the full dataset. It never fails.
func (g *Gateway) Resolve(ctx context.Context, name string) models.Resolution {
	g.logger.Debug("resolving relawan", "relawan", name)

	primary := g.GetDataByRelawan(ctx, name)
	if primary.IsSuccess() && primary.HasData() {
		g.logger.Info("main method success", "relawan", name, "records", len(primary.Data))
		return models.Resolution{Source: models.SourcePrimary, Envelope: primary}
	}

	g.logger.Info("trying backup method", "relawan", name, "primary_message", primary.Message)
	env, usable := g.backup(ctx, name)
	if !usable {
		return models.Resolution{Source: models.SourceEmpty, Envelope: env}
	}
	return models.Resolution{Source: models.SourceFallback, Envelope: env}
}

// GetDataByRelawanEnhanced returns the envelope chosen by Resolve
func (g *Gateway) GetDataByRelawanEnhanced(ctx context.Context, name string) models.Envelope {
	return g.Resolve(ctx, name).Envelope
}

// DebugRelawan runs the server-side filter and only falls back when the
// backend reported an error or returned no data field at all.
func (g *Gateway) DebugRelawan(ctx context.Context, name string) models.Envelope {
	result := g.GetDataByRelawan(ctx, name)
	g.logger.Debug("debug relawan result", "relawan", name, "status", result.Status, "records", len(result.Data))

	if result.Status == models.StatusError || result.Data == nil {
		g.logger.Debug("debug relawan trying backup method", "relawan", name)
		return g.GetDataByRelawanBackup(ctx, name)
	}
	return result
}

// ListRelawan returns the distinct relawan names present in the full dataset,
// in the order they first appear.
func (g *Gateway) ListRelawan(ctx context.Context) []string {
	all := g.GetAllData(ctx)
	names := []string{}
	if !all.IsSuccess() {
		return names
	}

	seen := make(map[string]bool)
	for _, record := range all.Data {
		relawan, ok := record.Relawan()
		if !ok || seen[relawan] {
			continue
		}
		seen[relawan] = true
		names = append(names, relawan)
	}

	g.logger.Debug("relawan list", "count", len(names))
	return names
}
