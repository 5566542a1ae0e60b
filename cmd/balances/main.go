package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"vault-staking-go/internal/common"
	"vault-staking-go/internal/config"
	"vault-staking-go/internal/database"
	"vault-staking-go/internal/models"
)

type balanceStats struct {
	totalUsers        int
	usersWithBalances int
	totalPositions    int
}

func printBalance(balance *models.UserBalance) {
	fmt.Printf("│  total: %s  available: %s  staked: %s  rewards: %s (v%d)\n",
		balance.TotalBalance.String(),
		balance.AvailableBalance.String(),
		balance.StakedAmount.String(),
		balance.TotalRewards.String(),
		balance.Version)
}

func printPosition(position models.StakingPosition, isLast bool) {
	fmt.Printf("%s %-16s %s staked %s since %s (rewards: %s)\n",
		common.BoxPrefix(isLast),
		position.PlanName,
		position.Status,
		common.FormatAmount(position.Amount),
		position.StartDate.Format("2006-01-02"),
		position.TotalRewards.String())
}

func printUserHeader(user common.UserInfo, positionCount int) {
	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("│  ID: %s\n", user.Id)
	fmt.Printf("│  Active positions: %d\n", positionCount)
	common.PrintBoxSeparator(78)
}

func processUser(ctx context.Context, user common.UserInfo, dbService *database.Service) (int, error) {
	balance, err := dbService.GetBalance(ctx, user.Id)
	if err != nil {
		if errors.Is(err, database.ErrBalanceNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	positions, err := dbService.ListPositions(ctx, user.Id, models.PositionStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to list positions: %w", err)
	}

	printUserHeader(user, len(positions))
	printBalance(balance)
	for i, position := range positions {
		printPosition(position, i == len(positions)-1)
	}

	return len(positions), nil
}

func processUsersAndGenerateReport(ctx context.Context, users []common.UserInfo, dbService *database.Service, logger *zap.Logger) balanceStats {
	stats := balanceStats{}

	for _, user := range users {
		stats.totalUsers++

		positionCount, err := processUser(ctx, user, dbService)
		if err != nil {
			logger.Error("Failed to process user",
				zap.String("user_id", user.Id),
				zap.String("user_name", user.Name),
				zap.Error(err))
			continue
		}

		stats.usersWithBalances++
		stats.totalPositions += positionCount
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	flag.Parse()

	logger.Info("Starting balance query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	users, err := common.InitializeUsers(ctx, dbService, *emailFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize users", zap.Error(err))
	}

	common.PrintHeader("STAKING BALANCE REPORT", common.DefaultWidth)

	stats := processUsersAndGenerateReport(ctx, users, dbService, logger)

	summary := fmt.Sprintf("SUMMARY: %d users with balances, %d active positions (%d users queried)",
		stats.usersWithBalances, stats.totalPositions, stats.totalUsers)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("users_with_balances", stats.usersWithBalances),
		zap.Int("active_positions", stats.totalPositions))
}
