package meta

import (
	"context"
	"slices"
)

// UpdateInfo summarizes a patch check against the local catalog.
type UpdateInfo struct {
	Latest           string   `json:"latest"`
	Current          string   `json:"current"`
	Outdated         bool     `json:"outdated"`
	NewChampions     []string `json:"new_champions"`
	RemovedChampions []string `json:"removed_champions"`
}

// CheckUpdate fetches the latest published version and reports whether the
// local catalog is behind it, plus any champions added or removed upstream.
func (a *Analyzer) CheckUpdate(ctx context.Context, currentVersion string, localIDs []string) (*UpdateInfo, error) {
	versions, err := a.client.Versions(ctx)
	if err != nil {
		return nil, err
	}
	info := &UpdateInfo{
		Current:          currentVersion,
		NewChampions:     []string{},
		RemovedChampions: []string{},
	}
	if len(versions) == 0 {
		return info, nil
	}
	info.Latest = versions[0]
	info.Outdated = info.Latest != currentVersion

	remote, err := a.client.ChampionIDs(ctx, info.Latest)
	if err != nil {
		return nil, err
	}
	slices.Sort(remote)
	for _, id := range remote {
		if !slices.Contains(localIDs, id) {
			info.NewChampions = append(info.NewChampions, id)
		}
	}
	for _, id := range localIDs {
		if !slices.Contains(remote, id) {
			info.RemovedChampions = append(info.RemovedChampions, id)
		}
	}
	return info, nil
}

// PreviousVersion returns the patch immediately before the latest, the pair
// Refresh diffs on startup.
func (a *Analyzer) PreviousVersion(ctx context.Context) (string, error) {
	versions, err := a.client.Versions(ctx)
	if err != nil {
		return "", err
	}
	if len(versions) < 2 {
		return "", nil
	}
	return versions[1], nil
}
