package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"familybudget/internal/database"
	"familybudget/internal/models"
)

// FamilyRepository handles database operations for families and memberships
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a new family and adds the creator as its owner.
// Both inserts run in one transaction so a family can never exist
// without exactly one owner membership.
func (r *FamilyRepository) CreateFamily(ctx context.Context, name string, creatorUserID int64) (*models.Family, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name) VALUES (?)"
	familyID, err := tx.ExecReturningID(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)"
	if _, err := tx.Exec(ctx, query, familyID, creatorUserID, models.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to add owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Family{
		ID:        familyID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, familyID int64) (*models.Family, error) {
	query := "SELECT id, name, created_at, updated_at FROM families WHERE id = ?"
	family := &models.Family{}
	err := r.db.QueryRow(ctx, query, familyID).Scan(
		&family.ID,
		&family.Name,
		&family.CreatedAt,
		&family.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// GetFamilyWithMembers retrieves a family together with all of its
// memberships in a single query. Authorization checks use this to avoid
// one lookup per membership.
func (r *FamilyRepository) GetFamilyWithMembers(ctx context.Context, familyID int64) (*models.FamilyWithMembers, error) {
	query := `
		SELECT f.id, f.name, f.created_at, f.updated_at,
		       fm.id, fm.user_id, fm.role, fm.joined_at
		FROM families f
		LEFT JOIN family_members fm ON fm.family_id = f.id
		WHERE f.id = ?
		ORDER BY fm.joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family with members: %w", err)
	}
	defer rows.Close()

	var result *models.FamilyWithMembers
	for rows.Next() {
		var family models.Family
		var memberID, userID sql.NullInt64
		var role sql.NullString
		var joinedAt sql.NullTime
		if err := rows.Scan(
			&family.ID, &family.Name, &family.CreatedAt, &family.UpdatedAt,
			&memberID, &userID, &role, &joinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		if result == nil {
			result = &models.FamilyWithMembers{Family: family}
		}
		if memberID.Valid {
			result.Members = append(result.Members, models.FamilyMember{
				ID:       memberID.Int64,
				FamilyID: family.ID,
				UserID:   userID.Int64,
				Role:     models.Role(role.String),
				JoinedAt: joinedAt.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read family members: %w", err)
	}
	return result, nil
}

// GetMembership retrieves the membership row for a (family, user) pair
func (r *FamilyRepository) GetMembership(ctx context.Context, familyID, userID int64) (*models.FamilyMember, error) {
	query := `
		SELECT id, family_id, user_id, role, joined_at
		FROM family_members
		WHERE family_id = ? AND user_id = ?
	`
	member := &models.FamilyMember{}
	err := r.db.QueryRow(ctx, query, familyID, userID).Scan(
		&member.ID, &member.FamilyID, &member.UserID, &member.Role, &member.JoinedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return member, nil
}

// AddFamilyMember inserts a membership row. The unique (family_id,
// user_id) index stops concurrent duplicate additions; callers should
// check the error with IsDuplicateMember.
func (r *FamilyRepository) AddFamilyMember(ctx context.Context, familyID, userID int64, role models.Role) (*models.FamilyMember, error) {
	query := "INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, familyID, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}
	return &models.FamilyMember{
		ID:       id,
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}, nil
}

// IsDuplicateMember reports whether err came from the unique
// (family_id, user_id) constraint.
func (r *FamilyRepository) IsDuplicateMember(err error) bool {
	return r.db.IsUniqueViolation(err)
}

// RemoveFamilyMember deletes a membership row
func (r *FamilyRepository) RemoveFamilyMember(ctx context.Context, familyID, userID int64) error {
	query := "DELETE FROM family_members WHERE family_id = ? AND user_id = ?"
	if _, err := r.db.Exec(ctx, query, familyID, userID); err != nil {
		return fmt.Errorf("failed to remove family member: %w", err)
	}
	return nil
}

// GetFamilyMembers retrieves all members of a family with user details
func (r *FamilyRepository) GetFamilyMembers(ctx context.Context, familyID int64) ([]models.FamilyMember, []models.User, error) {
	query := `
		SELECT fm.id, fm.family_id, fm.user_id, fm.role, fm.joined_at,
		       u.id, u.email, u.name, u.created_at, u.updated_at
		FROM family_members fm
		INNER JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	var users []models.User
	for rows.Next() {
		var member models.FamilyMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.FamilyID, &member.UserID, &member.Role, &member.JoinedAt,
			&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, member)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read family members: %w", err)
	}
	return members, users, nil
}

// GetUserFamilies retrieves all families a user belongs to
func (r *FamilyRepository) GetUserFamilies(ctx context.Context, userID int64) ([]models.Family, error) {
	query := `
		SELECT f.id, f.name, f.created_at, f.updated_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read families: %w", err)
	}
	return families, nil
}

// GetAllFamilies returns every family, newest first
func (r *FamilyRepository) GetAllFamilies(ctx context.Context) ([]models.Family, error) {
	query := "SELECT id, name, created_at, updated_at FROM families ORDER BY created_at DESC"
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read families: %w", err)
	}
	return families, nil
}

// UpdateFamily updates a family's name
func (r *FamilyRepository) UpdateFamily(ctx context.Context, familyID int64, name string) error {
	query := "UPDATE families SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, name, familyID); err != nil {
		return fmt.Errorf("failed to update family: %w", err)
	}
	return nil
}

// DeleteFamily deletes a family; memberships and scoped resources
// cascade at the store level.
func (r *FamilyRepository) DeleteFamily(ctx context.Context, familyID int64) error {
	query := "DELETE FROM families WHERE id = ?"
	if _, err := r.db.Exec(ctx, query, familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}
