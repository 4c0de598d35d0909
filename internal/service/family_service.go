package service

import (
	"context"
	"log/slog"

	"familybudget/internal/authz"
	"familybudget/internal/models"
	"familybudget/internal/repository"
	"familybudget/internal/validation"
)

// FamilyService handles family lifecycle and the membership protocol
type FamilyService struct {
	familyRepo *repository.FamilyRepository
	userRepo   *repository.UserRepository
	authority  *authz.Authority
	email      *EmailService
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, userRepo *repository.UserRepository, authority *authz.Authority, email *EmailService) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		userRepo:   userRepo,
		authority:  authority,
		email:      email,
	}
}

// CreateFamily creates a family with the caller as its owner
func (s *FamilyService) CreateFamily(ctx context.Context, name string, caller *models.User) (*models.Family, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	family, err := s.familyRepo.CreateFamily(ctx, name, caller.ID)
	if err != nil {
		return nil, persistFail("create family", err)
	}
	return family, nil
}

// GetAllFamilies lists every family in the system
func (s *FamilyService) GetAllFamilies(ctx context.Context) ([]models.Family, error) {
	families, err := s.familyRepo.GetAllFamilies(ctx)
	if err != nil {
		return nil, persistFail("retrieve families", err)
	}
	return families, nil
}

// GetFamily retrieves a family the caller belongs to
func (s *FamilyService) GetFamily(ctx context.Context, familyID int64, caller *models.User) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve family", err)
	}
	if family == nil {
		return nil, &BusinessError{Message: "Family not found"}
	}
	if _, err := s.authority.IsMember(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	return family, nil
}

// UpdateFamily renames a family; owner only
func (s *FamilyService) UpdateFamily(ctx context.Context, familyID int64, caller *models.User, name string) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve family", err)
	}
	if family == nil {
		return nil, &BusinessError{Message: "Family not found"}
	}
	if _, err := s.authority.IsOwner(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, &BusinessError{Message: err.Error()}
	}
	if err := s.familyRepo.UpdateFamily(ctx, familyID, name); err != nil {
		return nil, persistFail("update family", err)
	}
	family.Name = name
	return family, nil
}

// DeleteFamily deletes a family and everything scoped to it; owner only
func (s *FamilyService) DeleteFamily(ctx context.Context, familyID int64, caller *models.User) error {
	family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return persistFail("retrieve family", err)
	}
	if family == nil {
		return &BusinessError{Message: "Family not found"}
	}
	if _, err := s.authority.IsOwner(ctx, familyID, caller.ID); err != nil {
		return err
	}
	if err := s.familyRepo.DeleteFamily(ctx, familyID); err != nil {
		return persistFail("delete family", err)
	}
	return nil
}

// FamilyMemberDetail pairs a membership with its user for API responses
type FamilyMemberDetail struct {
	Membership models.FamilyMember
	User       models.User
}

// ListMembers lists a family's members; any member may read
func (s *FamilyService) ListMembers(ctx context.Context, familyID int64, caller *models.User) ([]FamilyMemberDetail, error) {
	if _, err := s.authority.IsMember(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}
	members, users, err := s.familyRepo.GetFamilyMembers(ctx, familyID)
	if err != nil {
		return nil, persistFail("retrieve family members", err)
	}
	details := make([]FamilyMemberDetail, 0, len(members))
	for i := range members {
		details = append(details, FamilyMemberDetail{Membership: members[i], User: users[i]})
	}
	return details, nil
}

// AddMember adds a user to a family. Only the owner may add members;
// the target must exist, must not already be a member, and the role
// must be an assignable (non-owner) role.
func (s *FamilyService) AddMember(ctx context.Context, familyID, targetUserID int64, role models.Role, caller *models.User) (*models.FamilyMember, error) {
	if _, err := s.authority.IsOwner(ctx, familyID, caller.ID); err != nil {
		return nil, err
	}

	if !role.Assignable() {
		return nil, &BusinessError{Message: "Invalid role for a new member"}
	}

	target, err := s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return nil, persistFail("look up user", err)
	}
	if target == nil {
		return nil, &BusinessError{Message: "User not found"}
	}

	existing, err := s.familyRepo.GetMembership(ctx, familyID, targetUserID)
	if err != nil {
		return nil, persistFail("check membership", err)
	}
	if existing != nil {
		return nil, &BusinessError{Message: "User is already a member of this family"}
	}

	member, err := s.familyRepo.AddFamilyMember(ctx, familyID, targetUserID, role)
	if err != nil {
		// A concurrent addition may land first; the unique index turns
		// that race into a duplicate error.
		if s.familyRepo.IsDuplicateMember(err) {
			return nil, &BusinessError{Message: "User is already a member of this family"}
		}
		return nil, persistFail("add family member", err)
	}

	if s.email != nil && s.email.IsEnabled() {
		family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
		if err == nil && family != nil {
			if err := s.email.SendMemberAddedEmail(ctx, target.Email, target.Name, family.Name, string(role)); err != nil {
				slog.Warn("Failed to send member notification", "error", err)
			}
		}
	}

	return member, nil
}

// RemoveMember removes a user from a family. Only the owner may remove
// members, and the owner membership itself can never be removed.
func (s *FamilyService) RemoveMember(ctx context.Context, familyID, targetUserID int64, caller *models.User) error {
	if _, err := s.authority.IsOwner(ctx, familyID, caller.ID); err != nil {
		return err
	}

	membership, err := s.familyRepo.GetMembership(ctx, familyID, targetUserID)
	if err != nil {
		return persistFail("check membership", err)
	}
	if membership == nil {
		return &BusinessError{Message: "User is not a member of this family"}
	}
	if membership.Role == models.RoleOwner {
		return &BusinessError{Message: "Cannot remove the owner of a family"}
	}

	if err := s.familyRepo.RemoveFamilyMember(ctx, familyID, targetUserID); err != nil {
		return persistFail("remove family member", err)
	}
	return nil
}

// ListUserFamilies lists the families a user belongs to; self only
func (s *FamilyService) ListUserFamilies(ctx context.Context, targetUserID int64, caller *models.User) ([]models.Family, error) {
	if err := authz.AuthorizeSelf(targetUserID, caller.ID); err != nil {
		return nil, err
	}
	families, err := s.familyRepo.GetUserFamilies(ctx, targetUserID)
	if err != nil {
		return nil, persistFail("retrieve families", err)
	}
	return families, nil
}
