package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/quizium-api/internal/pkg/errors"
)

func TestApplyRoleAction_InviteFromNone(t *testing.T) {
	// Act
	tr, err := ApplyRoleAction(RoleNone, ActionInvite)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, RoleInvited, tr.Next)
	assert.False(t, tr.Delete)
}

func TestApplyRoleAction_AutoResolve(t *testing.T) {
	// Приглашение поверх существующей заявки разрешается сразу в member
	tr, err := ApplyRoleAction(RoleRequested, ActionInvite)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, tr.Next)

	// Симметричный случай: заявка поверх приглашения
	tr, err = ApplyRoleAction(RoleInvited, ActionRequest)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, tr.Next)
}

func TestApplyRoleAction_DuplicateCycles(t *testing.T) {
	_, err := ApplyRoleAction(RoleInvited, ActionInvite)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyInvited)

	_, err = ApplyRoleAction(RoleRequested, ActionRequest)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
}

func TestApplyRoleAction_MembershipTierRejectsNewCycles(t *testing.T) {
	for _, role := range []Role{RoleMember, RoleAdmin, RoleOwner} {
		_, err := ApplyRoleAction(role, ActionRequest)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyInCompany, "роль %s", role)

		_, err = ApplyRoleAction(role, ActionInvite)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyMember, "роль %s", role)
	}
}

func TestApplyRoleAction_BlockedIsTerminal(t *testing.T) {
	_, err := ApplyRoleAction(RoleBlocked, ActionInvite)
	assert.ErrorIs(t, err, apperrors.ErrBlocked)

	_, err = ApplyRoleAction(RoleBlocked, ActionRequest)
	assert.ErrorIs(t, err, apperrors.ErrBlocked)
}

func TestApplyRoleAction_AcceptDecline(t *testing.T) {
	tr, err := ApplyRoleAction(RoleInvited, ActionAcceptInvite)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, tr.Next)

	// Отклоненная строка сохраняется, а не удаляется
	tr, err = ApplyRoleAction(RoleInvited, ActionDeclineInvite)
	require.NoError(t, err)
	assert.Equal(t, RoleDeclined, tr.Next)
	assert.False(t, tr.Delete)

	tr, err = ApplyRoleAction(RoleRequested, ActionAcceptRequest)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, tr.Next)

	// Принятие приглашения из любого другого состояния — ErrInvalidState
	_, err = ApplyRoleAction(RoleMember, ActionAcceptInvite)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = ApplyRoleAction(RoleDeclined, ActionAcceptInvite)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestApplyRoleAction_DeclinedAllowsNewCycle(t *testing.T) {
	tr, err := ApplyRoleAction(RoleDeclined, ActionInvite)
	require.NoError(t, err)
	assert.Equal(t, RoleInvited, tr.Next)

	tr, err = ApplyRoleAction(RoleDeclined, ActionRequest)
	require.NoError(t, err)
	assert.Equal(t, RoleRequested, tr.Next)
}

func TestApplyRoleAction_RemoveUser(t *testing.T) {
	// Удаляется только обычный участник
	tr, err := ApplyRoleAction(RoleMember, ActionRemoveUser)
	require.NoError(t, err)
	assert.True(t, tr.Delete)
	assert.Equal(t, RoleNone, tr.Next)

	// Администратора через remove_user удалить нельзя
	_, err = ApplyRoleAction(RoleAdmin, ActionRemoveUser)
	assert.ErrorIs(t, err, apperrors.ErrActionNotAllowed)

	_, err = ApplyRoleAction(RoleInvited, ActionRemoveUser)
	assert.ErrorIs(t, err, apperrors.ErrActionNotAllowed)
}

func TestApplyRoleAction_AdminAssignment(t *testing.T) {
	tr, err := ApplyRoleAction(RoleMember, ActionAssignAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, tr.Next)

	tr, err = ApplyRoleAction(RoleAdmin, ActionRemoveAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, tr.Next)

	// Назначить администратором можно только участника
	_, err = ApplyRoleAction(RoleInvited, ActionAssignAdmin)
	assert.ErrorIs(t, err, apperrors.ErrActionNotAllowed)

	_, err = ApplyRoleAction(RoleAdmin, ActionAssignAdmin)
	assert.ErrorIs(t, err, apperrors.ErrActionNotAllowed)
}

// Каждая комбинация роль×действие либо дает переход, либо осмысленную ошибку —
// паники и неопределенных исходов быть не может.
func TestApplyRoleAction_Exhaustive(t *testing.T) {
	roles := []Role{RoleNone, RoleOwner, RoleAdmin, RoleMember, RoleInvited, RoleRequested, RoleDeclined, RoleBlocked}
	actions := []RoleAction{
		ActionInvite, ActionRequest,
		ActionAcceptInvite, ActionDeclineInvite,
		ActionAcceptRequest, ActionDeclineRequest,
		ActionRemoveUser, ActionAssignAdmin, ActionRemoveAdmin,
	}

	for _, role := range roles {
		for _, action := range actions {
			tr, err := ApplyRoleAction(role, action)
			if err != nil {
				continue
			}
			if tr.Delete {
				assert.Equal(t, RoleNone, tr.Next, "удаление должно обнулять роль: %s %s", role, action)
			} else {
				assert.NotEqual(t, RoleNone, tr.Next, "переход без удаления должен давать роль: %s %s", role, action)
			}
		}
	}
}

func TestRole_IsMembershipTier(t *testing.T) {
	assert.True(t, RoleMember.IsMembershipTier())
	assert.True(t, RoleAdmin.IsMembershipTier())
	assert.True(t, RoleOwner.IsMembershipTier())
	assert.False(t, RoleInvited.IsMembershipTier())
	assert.False(t, RoleRequested.IsMembershipTier())
	assert.False(t, RoleDeclined.IsMembershipTier())
	assert.False(t, RoleBlocked.IsMembershipTier())
}
