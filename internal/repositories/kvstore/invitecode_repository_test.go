package kvstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
	"github.com/tmtrack/time_tracker_app/internal/repositories/kvstore"
)

type InviteCodeRepositoryTestSuite struct {
	suite.Suite
	repos portsrepo.RepositoryProvider
	ctx   context.Context
	orgID string
}

func (suite *InviteCodeRepositoryTestSuite) SetupTest() {
	suite.repos = kvstore.NewRepositoryProvider(kv.NewMemoryStore())
	suite.ctx = context.Background()
	suite.orgID = uuid.NewString()
}

func (suite *InviteCodeRepositoryTestSuite) newCode(code string, maxUses *int) domain.InviteCode {
	return domain.InviteCode{
		InviteCodeID:   uuid.NewString(),
		Code:           code,
		OrganizationID: suite.orgID,
		CreatedBy:      uuid.NewString(),
		CreatedAt:      time.Now(),
		MaxUses:        maxUses,
		IsActive:       true,
	}
}

func (suite *InviteCodeRepositoryTestSuite) newStaffUser() domain.User {
	return domain.User{
		UserID: uuid.NewString(),
		Email:  uuid.NewString() + "@example.com",
		Name:   "Invited Staff",
		Role:   domain.RoleStaff,
	}
}

func (suite *InviteCodeRepositoryTestSuite) TestSaveInviteCode_DuplicateCodeString() {
	first := suite.newCode("ABCD2345", nil)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, first))

	second := suite.newCode("ABCD2345", nil)
	err := suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, second)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *InviteCodeRepositoryTestSuite) TestFindInviteCodeByCode_NormalizesInput() {
	code := suite.newCode("ABCD2345", nil)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	found, err := suite.repos.InviteCodeRepo.FindInviteCodeByCode(suite.ctx, "  abcd2345 ")
	suite.Require().NoError(err)
	suite.Equal(code.InviteCodeID, found.InviteCodeID)
}

func (suite *InviteCodeRepositoryTestSuite) TestListInviteCodesByOrganization() {
	a := suite.newCode("AAAA2345", nil)
	b := suite.newCode("BBBB2345", nil)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, a))
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, b))

	codes, err := suite.repos.InviteCodeRepo.ListInviteCodesByOrganization(suite.ctx, suite.orgID)
	suite.Require().NoError(err)
	suite.Require().Len(codes, 2)
	suite.Equal(a.InviteCodeID, codes[0].InviteCodeID)
	suite.Equal(b.InviteCodeID, codes[1].InviteCodeID)
}

func (suite *InviteCodeRepositoryTestSuite) TestRedeemInviteCode_CreatesMemberAndIncrementsUses() {
	maxUses := 3
	code := suite.newCode("ABCD2345", &maxUses)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	newUser := suite.newStaffUser()
	redeemed, err := suite.repos.InviteCodeRepo.RedeemInviteCode(suite.ctx, "ABCD2345", newUser)

	suite.Require().NoError(err)
	suite.Equal(1, redeemed.CurrentUses)

	member, err := suite.repos.UserRepo.FindUserByID(suite.ctx, newUser.UserID)
	suite.Require().NoError(err)
	suite.Require().NotNil(member.OrganizationID)
	suite.Equal(suite.orgID, *member.OrganizationID)

	members, err := suite.repos.UserRepo.FindUsersByOrganization(suite.ctx, suite.orgID)
	suite.Require().NoError(err)
	suite.Len(members, 1)
}

func (suite *InviteCodeRepositoryTestSuite) TestRedeemInviteCode_StopsAtMaxUses() {
	maxUses := 1
	code := suite.newCode("ABCD2345", &maxUses)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	_, err := suite.repos.InviteCodeRepo.RedeemInviteCode(suite.ctx, "ABCD2345", suite.newStaffUser())
	suite.Require().NoError(err)

	loser := suite.newStaffUser()
	_, err = suite.repos.InviteCodeRepo.RedeemInviteCode(suite.ctx, "ABCD2345", loser)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// The losing redemption must not have created a user.
	_, err = suite.repos.UserRepo.FindUserByID(suite.ctx, loser.UserID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	stored, err := suite.repos.InviteCodeRepo.FindInviteCodeByCode(suite.ctx, "ABCD2345")
	suite.Require().NoError(err)
	suite.Equal(1, stored.CurrentUses)
}

func (suite *InviteCodeRepositoryTestSuite) TestRedeemInviteCode_ConcurrentRedemptionsStopAtMaxUses() {
	maxUses := 3
	code := suite.newCode("ABCD2345", &maxUses)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	const contenders = 8
	errs := make(chan error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.repos.InviteCodeRepo.RedeemInviteCode(suite.ctx, "ABCD2345", suite.newStaffUser())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, refused int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, apperrors.ErrValidation)
		refused++
	}
	suite.Equal(maxUses, succeeded)
	suite.Equal(contenders-maxUses, refused)

	stored, err := suite.repos.InviteCodeRepo.FindInviteCodeByCode(suite.ctx, "ABCD2345")
	suite.Require().NoError(err)
	suite.Equal(maxUses, stored.CurrentUses)

	members, err := suite.repos.UserRepo.FindUsersByOrganization(suite.ctx, suite.orgID)
	suite.Require().NoError(err)
	suite.Len(members, maxUses)
}

func (suite *InviteCodeRepositoryTestSuite) TestRedeemInviteCode_DuplicateEmailRollsBackIncrement() {
	existing := suite.newStaffUser()
	suite.Require().NoError(suite.repos.UserRepo.SaveUser(suite.ctx, existing))

	code := suite.newCode("ABCD2345", nil)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	dupe := suite.newStaffUser()
	dupe.Email = existing.Email
	_, err := suite.repos.InviteCodeRepo.RedeemInviteCode(suite.ctx, "ABCD2345", dupe)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	stored, err := suite.repos.InviteCodeRepo.FindInviteCodeByCode(suite.ctx, "ABCD2345")
	suite.Require().NoError(err)
	suite.Equal(0, stored.CurrentUses)
}

func (suite *InviteCodeRepositoryTestSuite) TestRedeemInviteCode_InactiveCode() {
	code := suite.newCode("ABCD2345", nil)
	code.IsActive = false
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	_, err := suite.repos.InviteCodeRepo.RedeemInviteCode(suite.ctx, "ABCD2345", suite.newStaffUser())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InviteCodeRepositoryTestSuite) TestRedeemInviteCode_ExpiredCode() {
	code := suite.newCode("ABCD2345", nil)
	past := time.Now().Add(-time.Hour)
	code.ExpiresAt = &past
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	_, err := suite.repos.InviteCodeRepo.RedeemInviteCode(suite.ctx, "ABCD2345", suite.newStaffUser())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InviteCodeRepositoryTestSuite) TestUpdateInviteCode_ToggleTwiceRestoresState() {
	code := suite.newCode("ABCD2345", nil)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))

	code.IsActive = false
	suite.Require().NoError(suite.repos.InviteCodeRepo.UpdateInviteCode(suite.ctx, code))
	stored, err := suite.repos.InviteCodeRepo.FindInviteCodeByID(suite.ctx, code.InviteCodeID)
	suite.Require().NoError(err)
	suite.False(stored.IsActive)

	code.IsActive = true
	suite.Require().NoError(suite.repos.InviteCodeRepo.UpdateInviteCode(suite.ctx, code))
	stored, err = suite.repos.InviteCodeRepo.FindInviteCodeByID(suite.ctx, code.InviteCodeID)
	suite.Require().NoError(err)
	suite.True(stored.IsActive)
}

func (suite *InviteCodeRepositoryTestSuite) TestDeleteInviteCode_FreesCodeString() {
	code := suite.newCode("ABCD2345", nil)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, code))
	suite.Require().NoError(suite.repos.InviteCodeRepo.DeleteInviteCode(suite.ctx, code))

	_, err := suite.repos.InviteCodeRepo.FindInviteCodeByCode(suite.ctx, "ABCD2345")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	codes, err := suite.repos.InviteCodeRepo.ListInviteCodesByOrganization(suite.ctx, suite.orgID)
	suite.Require().NoError(err)
	suite.Empty(codes)

	// The code string can be minted again.
	reuse := suite.newCode("ABCD2345", nil)
	suite.Require().NoError(suite.repos.InviteCodeRepo.SaveInviteCode(suite.ctx, reuse))
}

func TestInviteCodeRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(InviteCodeRepositoryTestSuite))
}
