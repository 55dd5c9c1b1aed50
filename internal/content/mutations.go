package content

import (
	"context"
	"log/slog"
	"slices"

	"portfolio/internal/logger"
	"portfolio/internal/model"
	"portfolio/internal/repository"
)

// AddProject validates p and stores it; the stored record is mirrored into the view.
func (s *Sync) AddProject(ctx context.Context, p model.Project) Result {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return failed(err)
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	stored, err := s.store.Projects.Create(ctx, &p)
	if err != nil {
		return s.writeFailed("add project", err)
	}
	s.mirror(repository.Projects, func(st *State) {
		st.Projects = prependIfAbsent(st.Projects, *stored, func(x model.Project) string { return x.ID })
	})
	return ok(stored.ID)
}

// UpdateProject applies patch to the project id and stamps updatedAt.
func (s *Sync) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) Result {
	if err := patch.Validate(); err != nil {
		return failed(err)
	}
	now := s.now()
	patch.UpdatedAt = &now

	rollback := s.optimistic(repository.Projects, id, func(st *State) {
		if i := slices.IndexFunc(st.Projects, func(p model.Project) bool { return p.ID == id }); i >= 0 {
			patch.Apply(&st.Projects[i])
		}
	})
	if err := s.store.Projects.Update(ctx, id, patch); err != nil {
		rollback()
		return s.writeFailed("update project", err)
	}
	return ok(id)
}

// DeleteProject removes the project id.
func (s *Sync) DeleteProject(ctx context.Context, id string) Result {
	rollback := s.optimistic(repository.Projects, id, func(st *State) {
		st.Projects = slices.DeleteFunc(st.Projects, func(p model.Project) bool { return p.ID == id })
	})
	if err := s.store.Projects.Delete(ctx, id); err != nil {
		rollback()
		return s.writeFailed("delete project", err)
	}
	return ok(id)
}

// AddSkill validates sk and stores it.
func (s *Sync) AddSkill(ctx context.Context, sk model.Skill) Result {
	sk.Normalize()
	if err := sk.Validate(); err != nil {
		return failed(err)
	}
	sk.CreatedAt = s.now()

	stored, err := s.store.Skills.Create(ctx, &sk)
	if err != nil {
		return s.writeFailed("add skill", err)
	}
	s.mirror(repository.Skills, func(st *State) {
		if !slices.ContainsFunc(st.Skills, func(x model.Skill) bool { return x.ID == stored.ID }) {
			st.Skills = append(slices.Clip(st.Skills), *stored)
		}
	})
	return ok(stored.ID)
}

// UpdateSkill applies patch to the skill id.
func (s *Sync) UpdateSkill(ctx context.Context, id string, patch model.SkillPatch) Result {
	if err := patch.Validate(); err != nil {
		return failed(err)
	}
	rollback := s.optimistic(repository.Skills, id, func(st *State) {
		if i := slices.IndexFunc(st.Skills, func(x model.Skill) bool { return x.ID == id }); i >= 0 {
			patch.Apply(&st.Skills[i])
		}
	})
	if err := s.store.Skills.Update(ctx, id, patch); err != nil {
		rollback()
		return s.writeFailed("update skill", err)
	}
	return ok(id)
}

// DeleteSkill removes the skill id.
func (s *Sync) DeleteSkill(ctx context.Context, id string) Result {
	rollback := s.optimistic(repository.Skills, id, func(st *State) {
		st.Skills = slices.DeleteFunc(st.Skills, func(x model.Skill) bool { return x.ID == id })
	})
	if err := s.store.Skills.Delete(ctx, id); err != nil {
		rollback()
		return s.writeFailed("delete skill", err)
	}
	return ok(id)
}

// AddMessage validates m and stores it with status new unless one is given.
func (s *Sync) AddMessage(ctx context.Context, m model.Message) Result {
	m.Normalize()
	if err := m.Validate(); err != nil {
		return failed(err)
	}
	m.CreatedAt = s.now()
	m.UpdatedAt = nil

	stored, err := s.store.Messages.Create(ctx, &m)
	if err != nil {
		return s.writeFailed("add message", err)
	}
	s.mirror(repository.Messages, func(st *State) {
		st.Messages = prependIfAbsent(st.Messages, *stored, func(x model.Message) string { return x.ID })
	})
	return ok(stored.ID)
}

// UpdateMessageStatus sets the status of message id. Any of the five statuses is accepted.
func (s *Sync) UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus) Result {
	if !status.Valid() {
		var v model.Validator
		v.Check(false, "status", "status must be one of new, unread, read, replied, archived")
		return failed(v.Err())
	}
	now := s.now()
	rollback := s.optimistic(repository.Messages, id, func(st *State) {
		if i := slices.IndexFunc(st.Messages, func(x model.Message) bool { return x.ID == id }); i >= 0 {
			st.Messages[i].Status = status
			st.Messages[i].UpdatedAt = &now
		}
	})
	if err := s.store.Messages.UpdateStatus(ctx, id, status); err != nil {
		rollback()
		return s.writeFailed("update message status", err)
	}
	return ok(id)
}

// DeleteMessage removes the message id.
func (s *Sync) DeleteMessage(ctx context.Context, id string) Result {
	rollback := s.optimistic(repository.Messages, id, func(st *State) {
		st.Messages = slices.DeleteFunc(st.Messages, func(x model.Message) bool { return x.ID == id })
	})
	if err := s.store.Messages.Delete(ctx, id); err != nil {
		rollback()
		return s.writeFailed("delete message", err)
	}
	return ok(id)
}

// UpdateProfile applies patch to the profile document.
func (s *Sync) UpdateProfile(ctx context.Context, patch model.ProfilePatch) Result {
	if err := patch.Validate(); err != nil {
		return failed(err)
	}
	rollback := s.optimistic(repository.Profile, "", func(st *State) {
		patch.Apply(&st.Profile)
	})
	if err := s.store.Profile.Update(ctx, patch); err != nil {
		rollback()
		return s.writeFailed("update profile", err)
	}
	return ok("")
}

func (s *Sync) writeFailed(op string, err error) Result {
	s.log.Error(op+" failed", logger.Err(err), slog.Bool("demo", s.store.Demo))
	return failed(err)
}

// prependIfAbsent puts item first unless a snapshot already delivered it.
func prependIfAbsent[T any](list []T, item T, id func(T) string) []T {
	if slices.ContainsFunc(list, func(x T) bool { return id(x) == id(item) }) {
		return list
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}
