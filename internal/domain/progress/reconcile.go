package progress

import "trainee_portal_backend/internal/model"

type TiePolicy string

const (
	// TieRemoteWins 时间戳相同时以远端为准
	TieRemoteWins TiePolicy = "remote"
	// TieMerge 时间戳相同时勾选项按 OR 合并，避免丢数据
	TieMerge TiePolicy = "merge"
)

type Source string

const (
	SourceNone   Source = "none"
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
	SourceMerged Source = "merged"
)

// Outcome 合并结果以及需要回写的一侧
type Outcome struct {
	Effective   *model.ProgressSnapshot
	Source      Source
	WriteLocal  bool
	WriteRemote bool
}

// Reconcile 按 lastUpdated 取较新的一侧；一侧缺失时直接采用另一侧
func Reconcile(local, remote *model.ProgressSnapshot, policy TiePolicy) Outcome {
	switch {
	case local == nil && remote == nil:
		return Outcome{Source: SourceNone}
	case local == nil:
		return Outcome{Effective: remote.Clone(), Source: SourceRemote, WriteLocal: true}
	case remote == nil:
		return Outcome{Effective: local.Clone(), Source: SourceLocal, WriteRemote: true}
	case remote.LastUpdated.After(local.LastUpdated):
		return Outcome{Effective: remote.Clone(), Source: SourceRemote, WriteLocal: true}
	case local.LastUpdated.After(remote.LastUpdated):
		return Outcome{Effective: local.Clone(), Source: SourceLocal, WriteRemote: true}
	}

	if policy == TieMerge {
		return Outcome{Effective: merge(local, remote), Source: SourceMerged, WriteLocal: true, WriteRemote: true}
	}
	return Outcome{Effective: remote.Clone(), Source: SourceRemote, WriteLocal: true}
}

func merge(local, remote *model.ProgressSnapshot) *model.ProgressSnapshot {
	out := remote.Clone()
	for id, checked := range local.CheckedItems {
		if checked {
			out.CheckedItems[id] = true
		}
	}
	for moduleID, note := range local.Notes {
		if out.Notes[moduleID] == "" {
			out.Notes[moduleID] = note
		}
	}
	if out.TraineeName == "" {
		out.TraineeName = local.TraineeName
	}
	return out
}
