package panels

import (
	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// RoleResolver grants the panel's role on a reaction and revokes it when the
// reaction goes away. One reaction stands for one grant: reacting while already
// holding the role takes the reaction back, which in turn revokes the role.
type RoleResolver struct {
	platform Platform
}

func NewRoleResolver(p Platform) *RoleResolver {
	return &RoleResolver{platform: p}
}

func (r *RoleResolver) Kind() Kind {
	return KindRole
}

func (r *RoleResolver) OnAdd(event Event, panel Panel) error {
	role, err := r.role(event, panel)
	if err != nil || role == nil {
		return err
	}

	hasRole, err := r.platform.MemberHasRole(event.GuildID, event.UserID, role.ID)
	if err != nil {
		return err
	}
	if hasRole {
		err = r.platform.RemoveReaction(event.ChannelID, event.MessageID, event.Emoji.APIName(), event.UserID)
		return errors.Wrap(err, "taking back reaction of a member with the role")
	}

	err = r.platform.GrantRole(event.GuildID, event.UserID, role.ID)
	if err != nil {
		return err
	}
	metrics.RoleChanges.WithLabelValues("grant").Inc()
	return nil
}

func (r *RoleResolver) OnRemove(event Event, panel Panel) error {
	role, err := r.role(event, panel)
	if err != nil || role == nil {
		return err
	}

	err = r.platform.RevokeRole(event.GuildID, event.UserID, role.ID)
	if err != nil {
		return err
	}
	metrics.RoleChanges.WithLabelValues("revoke").Inc()
	return nil
}

func (r *RoleResolver) role(event Event, panel Panel) (*discordgo.Role, error) {
	role, err := r.platform.RoleByName(event.GuildID, panel.Payload)
	if err != nil {
		return nil, err
	}
	if role == nil {
		cache.GetLogger().WithField("module", "panels").Infof("role %s of panel #%s is gone", panel.Payload, event.MessageID)
	}
	return role, nil
}
